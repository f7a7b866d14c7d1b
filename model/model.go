package model

import "encoding/json"

// Status tracks a model through its training lifecycle. It only moves
// forward: initiated until training starts, started while rounds are
// running, finished once the aggregate for the final round is published.
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusStarted   Status = "started"
	StatusFinished  Status = "finished"
)

// Metadata is the ledger record describing one federated training job.
// ClientsPerRound and TrainingRounds are fixed at creation; CurrentRound
// advances only when an end-of-round aggregate is published.
type Metadata struct {
	ModelID         string `json:"modelId"`
	Name            string `json:"name"`
	ClientsPerRound int    `json:"clientsPerRound"`
	Status          Status `json:"status"`
	TrainingRounds  int    `json:"trainingRounds"`
	CurrentRound    int    `json:"currentRound"`
}

// ClientUpdate is one trainer's contribution for one round. Weights are an
// opaque payload the coordinator never interprets; DatasetSize is the
// contribution weight consumed by the external averaging algorithm.
type ClientUpdate struct {
	ModelID     string `json:"modelId"`
	Round       int    `json:"round"`
	Weights     string `json:"weights,omitempty"`
	DatasetSize int    `json:"datasetSize"`
}

// Redacted returns a copy safe for broadcast: the weights payload is
// dropped, only modelId, round and datasetSize remain.
func (u ClientUpdate) Redacted() ClientUpdate {
	u.Weights = ""

	return u
}

// EndRoundModel is the lead aggregator's published result for one round.
// Round is string-encoded on the wire.
type EndRoundModel struct {
	ModelID string `json:"modelId"`
	Round   string `json:"round"`
	Weights string `json:"weights"`
}

// ClientUpdateList is a transient view of one round's updates produced by a
// prefix scan. It is never persisted.
type ClientUpdateList struct {
	Updates []ClientUpdate `json:"originalModelList"`
}

// PersonalInfo is a derived view of the caller's identity and role.
// SelectedForRound is populated only for trainers.
type PersonalInfo struct {
	ClientID         string `json:"clientId"`
	Role             string `json:"role"`
	MSPID            string `json:"mspId"`
	Username         string `json:"username"`
	SelectedForRound *bool  `json:"selectedForRound,omitempty"`
}

func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func UnmarshalMetadata(data []byte) (Metadata, error) {
	var m Metadata
	err := json.Unmarshal(data, &m)

	return m, err
}

func (u ClientUpdate) Marshal() ([]byte, error) {
	return json.Marshal(u)
}

func UnmarshalClientUpdate(data []byte) (ClientUpdate, error) {
	var u ClientUpdate
	err := json.Unmarshal(data, &u)

	return u, err
}

func (e EndRoundModel) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalEndRoundModel(data []byte) (EndRoundModel, error) {
	var e EndRoundModel
	err := json.Unmarshal(data, &e)

	return e, err
}
