package middleware

import (
	"context"
	"time"

	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/model"
	"github.com/go-kit/kit/metrics"
)

var _ coordinator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coordinator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc coordinator.Service) coordinator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create-model-metadata").Add(1)
		mm.latency.With("method", "create-model-metadata").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateModelMetadata(ctx, modelID, name, clientsPerRound, trainingRounds)
}

func (mm *metricsMiddleware) StartTraining(ctx context.Context, modelID string) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "start-training").Add(1)
		mm.latency.With("method", "start-training").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.StartTraining(ctx, modelID)
}

func (mm *metricsMiddleware) GetModelMetadata(ctx context.Context, modelID string) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-model-metadata").Add(1)
		mm.latency.With("method", "get-model-metadata").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetModelMetadata(ctx, modelID)
}

func (mm *metricsMiddleware) AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "add-original-model").Add(1)
		mm.latency.With("method", "add-original-model").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.AddOriginalModel(ctx, modelID, weights, datasetSize)
}

func (mm *metricsMiddleware) AddOriginalModelCBOR(ctx context.Context, data []byte) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "add-original-model-cbor").Add(1)
		mm.latency.With("method", "add-original-model-cbor").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.AddOriginalModelCBOR(ctx, data)
}

func (mm *metricsMiddleware) GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (int, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-number-of-received-original-models").Add(1)
		mm.latency.With("method", "get-number-of-received-original-models").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetNumberOfReceivedOriginalModels(ctx, modelID)
}

func (mm *metricsMiddleware) CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "check-all-original-models-received").Add(1)
		mm.latency.With("method", "check-all-original-models-received").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CheckAllOriginalModelsReceived(ctx, modelID)
}

func (mm *metricsMiddleware) AddEndRoundModel(ctx context.Context, modelID, weights string) (model.Metadata, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "add-end-round-model").Add(1)
		mm.latency.With("method", "add-end-round-model").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.AddEndRoundModel(ctx, modelID, weights)
}

func (mm *metricsMiddleware) GetEndRoundModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-end-round-model").Add(1)
		mm.latency.With("method", "get-end-round-model").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetEndRoundModel(ctx, modelID)
}

func (mm *metricsMiddleware) GetTrainedModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-trained-model").Add(1)
		mm.latency.With("method", "get-trained-model").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetTrainedModel(ctx, modelID)
}

func (mm *metricsMiddleware) GetOriginalModelList(ctx context.Context, modelID string, round int) (model.ClientUpdateList, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-original-model-list").Add(1)
		mm.latency.With("method", "get-original-model-list").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetOriginalModelList(ctx, modelID, round)
}

func (mm *metricsMiddleware) GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (model.ClientUpdateList, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-original-model-list-for-current-round").Add(1)
		mm.latency.With("method", "get-original-model-list-for-current-round").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetOriginalModelListForCurrentRound(ctx, modelID)
}

func (mm *metricsMiddleware) GetPersonalInfo(ctx context.Context) (model.PersonalInfo, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-personal-info").Add(1)
		mm.latency.With("method", "get-personal-info").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetPersonalInfo(ctx)
}

func (mm *metricsMiddleware) HasRole(ctx context.Context, role string) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "has-role").Add(1)
		mm.latency.With("method", "has-role").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.HasRole(ctx, role)
}
