package middleware

import (
	"context"

	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ coordinator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    coordinator.Service
}

func Tracing(tracer trace.Tracer, svc coordinator.Service) coordinator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "create-model-metadata", trace.WithAttributes(
		attribute.String("model_id", modelID),
		attribute.String("name", name),
	))
	defer span.End()

	return tm.svc.CreateModelMetadata(ctx, modelID, name, clientsPerRound, trainingRounds)
}

func (tm *tracing) StartTraining(ctx context.Context, modelID string) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "start-training", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.StartTraining(ctx, modelID)
}

func (tm *tracing) GetModelMetadata(ctx context.Context, modelID string) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "get-model-metadata", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.GetModelMetadata(ctx, modelID)
}

func (tm *tracing) AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "add-original-model", trace.WithAttributes(
		attribute.String("model_id", modelID),
		attribute.String("dataset_size", datasetSize),
	))
	defer span.End()

	return tm.svc.AddOriginalModel(ctx, modelID, weights, datasetSize)
}

func (tm *tracing) AddOriginalModelCBOR(ctx context.Context, data []byte) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "add-original-model-cbor", trace.WithAttributes(
		attribute.Int("payload_size", len(data)),
	))
	defer span.End()

	return tm.svc.AddOriginalModelCBOR(ctx, data)
}

func (tm *tracing) GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (int, error) {
	ctx, span := tm.tracer.Start(ctx, "get-number-of-received-original-models", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.GetNumberOfReceivedOriginalModels(ctx, modelID)
}

func (tm *tracing) CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (bool, error) {
	ctx, span := tm.tracer.Start(ctx, "check-all-original-models-received", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.CheckAllOriginalModelsReceived(ctx, modelID)
}

func (tm *tracing) AddEndRoundModel(ctx context.Context, modelID, weights string) (model.Metadata, error) {
	ctx, span := tm.tracer.Start(ctx, "add-end-round-model", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.AddEndRoundModel(ctx, modelID, weights)
}

func (tm *tracing) GetEndRoundModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	ctx, span := tm.tracer.Start(ctx, "get-end-round-model", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.GetEndRoundModel(ctx, modelID)
}

func (tm *tracing) GetTrainedModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	ctx, span := tm.tracer.Start(ctx, "get-trained-model", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.GetTrainedModel(ctx, modelID)
}

func (tm *tracing) GetOriginalModelList(ctx context.Context, modelID string, round int) (model.ClientUpdateList, error) {
	ctx, span := tm.tracer.Start(ctx, "get-original-model-list", trace.WithAttributes(
		attribute.String("model_id", modelID),
		attribute.Int("round", round),
	))
	defer span.End()

	return tm.svc.GetOriginalModelList(ctx, modelID, round)
}

func (tm *tracing) GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (model.ClientUpdateList, error) {
	ctx, span := tm.tracer.Start(ctx, "get-original-model-list-for-current-round", trace.WithAttributes(
		attribute.String("model_id", modelID),
	))
	defer span.End()

	return tm.svc.GetOriginalModelListForCurrentRound(ctx, modelID)
}

func (tm *tracing) GetPersonalInfo(ctx context.Context) (model.PersonalInfo, error) {
	ctx, span := tm.tracer.Start(ctx, "get-personal-info")
	defer span.End()

	return tm.svc.GetPersonalInfo(ctx)
}

func (tm *tracing) HasRole(ctx context.Context, role string) (bool, error) {
	ctx, span := tm.tracer.Start(ctx, "has-role", trace.WithAttributes(
		attribute.String("role", role),
	))
	defer span.End()

	return tm.svc.HasRole(ctx, role)
}
