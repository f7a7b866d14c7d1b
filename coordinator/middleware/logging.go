package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/model"
)

var _ coordinator.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    coordinator.Service
}

func Logging(logger *slog.Logger, svc coordinator.Service) coordinator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
				slog.String("name", name),
				slog.String("clients_per_round", clientsPerRound),
				slog.String("training_rounds", trainingRounds),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create model metadata failed", args...)

			return
		}
		lm.logger.Info("Create model metadata completed successfully", args...)
	}(time.Now())

	return lm.svc.CreateModelMetadata(ctx, modelID, name, clientsPerRound, trainingRounds)
}

func (lm *loggingMiddleware) StartTraining(ctx context.Context, modelID string) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start training failed", args...)

			return
		}
		lm.logger.Info("Start training completed successfully", args...)
	}(time.Now())

	return lm.svc.StartTraining(ctx, modelID)
}

func (lm *loggingMiddleware) GetModelMetadata(ctx context.Context, modelID string) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get model metadata failed", args...)

			return
		}
		lm.logger.Info("Get model metadata completed successfully", args...)
	}(time.Now())

	return lm.svc.GetModelMetadata(ctx, modelID)
}

func (lm *loggingMiddleware) AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("update",
				slog.String("model_id", modelID),
				slog.String("dataset_size", datasetSize),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add original model failed", args...)

			return
		}
		lm.logger.Info("Add original model completed successfully", args...)
	}(time.Now())

	return lm.svc.AddOriginalModel(ctx, modelID, weights, datasetSize)
}

func (lm *loggingMiddleware) AddOriginalModelCBOR(ctx context.Context, data []byte) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("payload_size", len(data)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add original model CBOR failed", args...)

			return
		}
		lm.logger.Info("Add original model CBOR completed successfully", args...)
	}(time.Now())

	return lm.svc.AddOriginalModelCBOR(ctx, data)
}

func (lm *loggingMiddleware) GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (resp int, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
			slog.Int("received", resp),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get number of received original models failed", args...)

			return
		}
		lm.logger.Info("Get number of received original models completed successfully", args...)
	}(time.Now())

	return lm.svc.GetNumberOfReceivedOriginalModels(ctx, modelID)
}

func (lm *loggingMiddleware) CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (resp bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
			slog.Bool("all_received", resp),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Check all original models received failed", args...)

			return
		}
		lm.logger.Info("Check all original models received completed successfully", args...)
	}(time.Now())

	return lm.svc.CheckAllOriginalModelsReceived(ctx, modelID)
}

func (lm *loggingMiddleware) AddEndRoundModel(ctx context.Context, modelID, weights string) (resp model.Metadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
				slog.Int("current_round", resp.CurrentRound),
				slog.String("status", string(resp.Status)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add end round model failed", args...)

			return
		}
		lm.logger.Info("Add end round model completed successfully", args...)
	}(time.Now())

	return lm.svc.AddEndRoundModel(ctx, modelID, weights)
}

func (lm *loggingMiddleware) GetEndRoundModel(ctx context.Context, modelID string) (resp model.EndRoundModel, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
				slog.String("round", resp.Round),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get end round model failed", args...)

			return
		}
		lm.logger.Info("Get end round model completed successfully", args...)
	}(time.Now())

	return lm.svc.GetEndRoundModel(ctx, modelID)
}

func (lm *loggingMiddleware) GetTrainedModel(ctx context.Context, modelID string) (resp model.EndRoundModel, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get trained model failed", args...)

			return
		}
		lm.logger.Info("Get trained model completed successfully", args...)
	}(time.Now())

	return lm.svc.GetTrainedModel(ctx, modelID)
}

func (lm *loggingMiddleware) GetOriginalModelList(ctx context.Context, modelID string, round int) (resp model.ClientUpdateList, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
				slog.Int("round", round),
			),
			slog.Int("updates", len(resp.Updates)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get original model list failed", args...)

			return
		}
		lm.logger.Info("Get original model list completed successfully", args...)
	}(time.Now())

	return lm.svc.GetOriginalModelList(ctx, modelID, round)
}

func (lm *loggingMiddleware) GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (resp model.ClientUpdateList, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("model",
				slog.String("id", modelID),
			),
			slog.Int("updates", len(resp.Updates)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get original model list for current round failed", args...)

			return
		}
		lm.logger.Info("Get original model list for current round completed successfully", args...)
	}(time.Now())

	return lm.svc.GetOriginalModelListForCurrentRound(ctx, modelID)
}

func (lm *loggingMiddleware) GetPersonalInfo(ctx context.Context) (resp model.PersonalInfo, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("caller",
				slog.String("role", resp.Role),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get personal info failed", args...)

			return
		}
		lm.logger.Info("Get personal info completed successfully", args...)
	}(time.Now())

	return lm.svc.GetPersonalInfo(ctx)
}

func (lm *loggingMiddleware) HasRole(ctx context.Context, role string) (resp bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("role", role),
			slog.Bool("has_role", resp),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Has role failed", args...)

			return
		}
		lm.logger.Info("Has role completed successfully", args...)
	}(time.Now())

	return lm.svc.HasRole(ctx, role)
}
