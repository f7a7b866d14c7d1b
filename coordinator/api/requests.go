package api

import (
	apiutil "github.com/absmach/supermq/api/http/util"
)

type createModelReq struct {
	ModelID         string `json:"modelId"`
	Name            string `json:"name"`
	ClientsPerRound string `json:"clientsPerRound"`
	TrainingRounds  string `json:"trainingRounds"`
}

func (r *createModelReq) validate() error {
	if r.ModelID == "" {
		return apiutil.ErrMissingID
	}
	if r.Name == "" {
		return apiutil.ErrMissingName
	}

	return nil
}

type modelReq struct {
	modelID string
}

func (r *modelReq) validate() error {
	if r.modelID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type addUpdateReq struct {
	modelID     string
	Weights     string `json:"weights"`
	DatasetSize string `json:"datasetSize"`
}

func (r *addUpdateReq) validate() error {
	if r.modelID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type addUpdateCBORReq struct {
	data []byte
}

func (r *addUpdateCBORReq) validate() error {
	if len(r.data) == 0 {
		return apiutil.ErrEmptyList
	}

	return nil
}

type addAggregateReq struct {
	modelID string
	Weights string `json:"weights"`
}

func (r *addAggregateReq) validate() error {
	if r.modelID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type roundUpdatesReq struct {
	modelID string
	round   int
}

func (r *roundUpdatesReq) validate() error {
	if r.modelID == "" {
		return apiutil.ErrMissingID
	}
	if r.round < 0 {
		return apiutil.ErrInvalidQueryParams
	}

	return nil
}

type roleReq struct {
	role string
}

func (r *roleReq) validate() error {
	if r.role == "" {
		return apiutil.ErrMissingID
	}

	return nil
}
