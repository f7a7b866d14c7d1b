package sdk

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const modelsEndpoint = "/models"

type ModelRequest struct {
	ModelID         string `json:"modelId"`
	Name            string `json:"name"`
	ClientsPerRound string `json:"clientsPerRound"`
	TrainingRounds  string `json:"trainingRounds"`
}

type Metadata struct {
	ModelID         string `json:"modelId"`
	Name            string `json:"name"`
	ClientsPerRound int    `json:"clientsPerRound"`
	Status          string `json:"status"`
	TrainingRounds  int    `json:"trainingRounds"`
	CurrentRound    int    `json:"currentRound"`
}

type UpdateRequest struct {
	Weights     string `json:"weights"`
	DatasetSize string `json:"datasetSize"`
}

type Aggregate struct {
	ModelID string `json:"modelId"`
	Round   string `json:"round"`
	Weights string `json:"weights"`
}

type Update struct {
	ModelID     string `json:"modelId"`
	Round       int    `json:"round"`
	Weights     string `json:"weights,omitempty"`
	DatasetSize int    `json:"datasetSize"`
}

type UpdateList struct {
	Updates []Update `json:"originalModelList"`
}

type PersonalInfo struct {
	ClientID         string `json:"clientId"`
	Role             string `json:"role"`
	MSPID            string `json:"mspId"`
	Username         string `json:"username"`
	SelectedForRound *bool  `json:"selectedForRound,omitempty"`
}

func (sdk *coordSDK) CreateModel(req ModelRequest) (Metadata, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return Metadata{}, err
	}

	url := sdk.coordinatorURL + modelsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, CTJSON, data, http.StatusCreated)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) StartTraining(modelID string) (Metadata, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/start"

	body, err := sdk.processRequest(http.MethodPost, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) GetModel(modelID string) (Metadata, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) SubmitUpdate(modelID string, update UpdateRequest) (Metadata, error) {
	data, err := json.Marshal(update)
	if err != nil {
		return Metadata{}, err
	}

	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/updates"

	body, err := sdk.processRequest(http.MethodPost, url, CTJSON, data, http.StatusCreated)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) SubmitUpdateCBOR(data []byte) (Metadata, error) {
	url := sdk.coordinatorURL + "/updates/cbor"

	body, err := sdk.processRequest(http.MethodPost, url, CTCBOR, data, http.StatusCreated)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) ReceivedCount(modelID string) (int, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/updates/count"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Received int `json:"received"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}

	return resp.Received, nil
}

func (sdk *coordSDK) CheckQuorum(modelID string) (bool, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/updates/quorum"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return false, err
	}

	var resp struct {
		AllReceived bool `json:"allReceived"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, err
	}

	return resp.AllReceived, nil
}

func (sdk *coordSDK) PublishAggregate(modelID, weights string) (Metadata, error) {
	data, err := json.Marshal(map[string]string{"weights": weights})
	if err != nil {
		return Metadata{}, err
	}

	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/rounds"

	body, err := sdk.processRequest(http.MethodPost, url, CTJSON, data, http.StatusCreated)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func (sdk *coordSDK) LatestAggregate(modelID string) (Aggregate, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/rounds/latest"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return Aggregate{}, err
	}

	var agg Aggregate
	if err := json.Unmarshal(body, &agg); err != nil {
		return Aggregate{}, err
	}

	return agg, nil
}

func (sdk *coordSDK) TrainedModel(modelID string) (Aggregate, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/trained"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return Aggregate{}, err
	}

	var agg Aggregate
	if err := json.Unmarshal(body, &agg); err != nil {
		return Aggregate{}, err
	}

	return agg, nil
}

func (sdk *coordSDK) RoundUpdates(modelID string, round int) (UpdateList, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/rounds/" + strconv.Itoa(round) + "/updates"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return UpdateList{}, err
	}

	var list UpdateList
	if err := json.Unmarshal(body, &list); err != nil {
		return UpdateList{}, err
	}

	return list, nil
}

func (sdk *coordSDK) CurrentRoundUpdates(modelID string) (UpdateList, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + modelID + "/updates"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return UpdateList{}, err
	}

	var list UpdateList
	if err := json.Unmarshal(body, &list); err != nil {
		return UpdateList{}, err
	}

	return list, nil
}

func (sdk *coordSDK) WhoAmI() (PersonalInfo, error) {
	url := sdk.coordinatorURL + "/whoami"

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return PersonalInfo{}, err
	}

	var info PersonalInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return PersonalInfo{}, err
	}

	return info, nil
}

func (sdk *coordSDK) HasRole(role string) (bool, error) {
	url := sdk.coordinatorURL + "/roles/" + role

	body, err := sdk.processRequest(http.MethodGet, url, CTJSON, nil, http.StatusOK)
	if err != nil {
		return false, err
	}

	var resp struct {
		Role    string `json:"role"`
		HasRole bool   `json:"hasRole"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, err
	}

	return resp.HasRole, nil
}
