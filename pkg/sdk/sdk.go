// Package sdk is the HTTP client for the coordinator API, used by the CLI
// and by external tooling.
package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	CTJSON string = "application/json"
	CTCBOR string = "application/cbor"
)

// Identity carries the party attributes forwarded to the coordinator in
// request headers. The gateway in front of the coordinator normally fills
// these from the client certificate; the SDK sets them directly for
// development and testing setups.
type Identity struct {
	ClientID     string
	MSPID        string
	EnrollmentID string
	Roles        []string
}

type SDK interface {
	// CreateModel registers a new model. Requires the flAdmin role.
	//
	// example:
	//  m, _ := sdk.CreateModel(sdk.ModelRequest{
	//    ModelID:         "mnist",
	//    Name:            "digit classifier",
	//    ClientsPerRound: "3",
	//    TrainingRounds:  "5",
	//  })
	//  fmt.Println(m)
	CreateModel(req ModelRequest) (Metadata, error)

	// StartTraining flips a model to started. Requires flAdmin.
	StartTraining(modelID string) (Metadata, error)

	// GetModel gets the metadata record of one model.
	GetModel(modelID string) (Metadata, error)

	// SubmitUpdate submits the caller's update for the current round.
	// Requires the trainer role.
	SubmitUpdate(modelID string, update UpdateRequest) (Metadata, error)

	// SubmitUpdateCBOR submits a CBOR-encoded update.
	SubmitUpdateCBOR(data []byte) (Metadata, error)

	// ReceivedCount returns the number of updates stored for the current
	// round.
	ReceivedCount(modelID string) (int, error)

	// CheckQuorum reports whether the current round collected exactly
	// clientsPerRound updates.
	CheckQuorum(modelID string) (bool, error)

	// PublishAggregate publishes the round aggregate and advances the
	// round. Requires the leadAggregator role.
	PublishAggregate(modelID, weights string) (Metadata, error)

	// LatestAggregate returns the previous round's aggregate.
	LatestAggregate(modelID string) (Aggregate, error)

	// TrainedModel returns the final aggregate of a finished training.
	TrainedModel(modelID string) (Aggregate, error)

	// RoundUpdates lists the updates of one round. Requires
	// leadAggregator.
	RoundUpdates(modelID string, round int) (UpdateList, error)

	// CurrentRoundUpdates lists the updates of the current round.
	// Requires leadAggregator.
	CurrentRoundUpdates(modelID string) (UpdateList, error)

	// WhoAmI returns the caller's identity as the coordinator sees it.
	WhoAmI() (PersonalInfo, error)

	// HasRole reports whether the caller carries the named role.
	HasRole(role string) (bool, error)
}

type coordSDK struct {
	coordinatorURL string
	identity       Identity
	client         *http.Client
}

type Config struct {
	CoordinatorURL  string
	Identity        Identity
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &coordSDK{
		coordinatorURL: cfg.CoordinatorURL,
		identity:       cfg.Identity,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *coordSDK) processRequest(method, reqURL, contentType string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", contentType)
	if sdk.identity.ClientID != "" {
		req.Header.Set("X-Client-Id", sdk.identity.ClientID)
		req.Header.Set("X-Msp-Id", sdk.identity.MSPID)
		req.Header.Set("X-Enrollment-Id", sdk.identity.EnrollmentID)
		req.Header.Set("X-Roles", strings.Join(sdk.identity.Roles, ","))
	}

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
