package api

import (
	"context"
	"errors"

	"github.com/absmach/fedledger/coordinator"
	pkgerrors "github.com/absmach/fedledger/pkg/errors"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-kit/kit/endpoint"
)

func createModelEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(createModelReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.CreateModelMetadata(ctx, req.ModelID, req.Name, req.ClientsPerRound, req.TrainingRounds)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
			created:  true,
		}, nil
	}
}

func startTrainingEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.StartTraining(ctx, req.modelID)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
		}, nil
	}
}

func getModelEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.GetModelMetadata(ctx, req.modelID)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
		}, nil
	}
}

func addUpdateEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(addUpdateReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.AddOriginalModel(ctx, req.modelID, req.Weights, req.DatasetSize)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
			created:  true,
		}, nil
	}
}

func addUpdateCBOREndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(addUpdateCBORReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.AddOriginalModelCBOR(ctx, req.data)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
			created:  true,
		}, nil
	}
}

func receivedCountEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return receivedCountResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return receivedCountResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		n, err := svc.GetNumberOfReceivedOriginalModels(ctx, req.modelID)
		if err != nil {
			return receivedCountResponse{}, err
		}

		return receivedCountResponse{
			Received: n,
		}, nil
	}
}

func quorumEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return quorumResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return quorumResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		ok, err := svc.CheckAllOriginalModelsReceived(ctx, req.modelID)
		if err != nil {
			return quorumResponse{}, err
		}

		return quorumResponse{
			AllReceived: ok,
		}, nil
	}
}

func addAggregateEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(addAggregateReq)
		if !ok {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return metadataResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		m, err := svc.AddEndRoundModel(ctx, req.modelID, req.Weights)
		if err != nil {
			return metadataResponse{}, err
		}

		return metadataResponse{
			Metadata: m,
			created:  true,
		}, nil
	}
}

func getAggregateEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return aggregateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return aggregateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		agg, err := svc.GetEndRoundModel(ctx, req.modelID)
		if err != nil {
			return aggregateResponse{}, err
		}

		return aggregateResponse{
			EndRoundModel: agg,
		}, nil
	}
}

func getTrainedModelEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return aggregateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return aggregateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		agg, err := svc.GetTrainedModel(ctx, req.modelID)
		if err != nil {
			return aggregateResponse{}, err
		}

		return aggregateResponse{
			EndRoundModel: agg,
		}, nil
	}
}

func roundUpdatesEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(roundUpdatesReq)
		if !ok {
			return updateListResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return updateListResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		list, err := svc.GetOriginalModelList(ctx, req.modelID, req.round)
		if err != nil {
			return updateListResponse{}, err
		}

		return updateListResponse{
			ClientUpdateList: list,
		}, nil
	}
}

func currentRoundUpdatesEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(modelReq)
		if !ok {
			return updateListResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return updateListResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		list, err := svc.GetOriginalModelListForCurrentRound(ctx, req.modelID)
		if err != nil {
			return updateListResponse{}, err
		}

		return updateListResponse{
			ClientUpdateList: list,
		}, nil
	}
}

func personalInfoEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		info, err := svc.GetPersonalInfo(ctx)
		if err != nil {
			return personalInfoResponse{}, err
		}

		return personalInfoResponse{
			PersonalInfo: info,
		}, nil
	}
}

func hasRoleEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(roleReq)
		if !ok {
			return hasRoleResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return hasRoleResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		ok, err := svc.HasRole(ctx, req.role)
		if err != nil {
			return hasRoleResponse{}, err
		}

		return hasRoleResponse{
			Role:    req.role,
			HasRole: ok,
		}, nil
	}
}
