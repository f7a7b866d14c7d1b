package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/absmach/fedledger/model"
	"github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/identity"
	"github.com/absmach/fedledger/pkg/key"
	"github.com/absmach/fedledger/pkg/ledger"
	"github.com/absmach/fedledger/pkg/notifier"
	"github.com/fxamacker/cbor/v2"
)

type service struct {
	ledger   ledger.Ledger
	notifier notifier.Notifier
	logger   *slog.Logger
}

func NewService(l ledger.Ledger, n notifier.Notifier, logger *slog.Logger) Service {
	return &service{
		ledger:   l,
		notifier: n,
		logger:   logger,
	}
}

func (svc *service) CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (model.Metadata, error) {
	if _, err := identity.RequireRole(ctx, identity.RoleFLAdmin); err != nil {
		return model.Metadata{}, err
	}
	if modelID == "" {
		return model.Metadata{}, errors.ErrEmptyKey
	}

	clients, err := parsePositiveInt(clientsPerRound, "clientsPerRound")
	if err != nil {
		return model.Metadata{}, err
	}
	rounds, err := parsePositiveInt(trainingRounds, "trainingRounds")
	if err != nil {
		return model.Metadata{}, err
	}

	m := model.Metadata{
		ModelID:         modelID,
		Name:            name,
		ClientsPerRound: clients,
		Status:          model.StatusInitiated,
		TrainingRounds:  rounds,
		CurrentRound:    0,
	}

	err = svc.ledger.Update(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Get(key.ModelMetadata(modelID)); err == nil {
			return fmt.Errorf("%w: %s", errors.ErrModelExists, modelID)
		}
		val, err := m.Marshal()
		if err != nil {
			return err
		}

		return tx.Put(key.ModelMetadata(modelID), val)
	})
	if err != nil {
		return model.Metadata{}, err
	}

	svc.emit(ctx, CreateModelMetadataEvent, m)

	return m, nil
}

func (svc *service) StartTraining(ctx context.Context, modelID string) (model.Metadata, error) {
	if _, err := identity.RequireRole(ctx, identity.RoleFLAdmin); err != nil {
		return model.Metadata{}, err
	}

	var m model.Metadata
	err := svc.ledger.Update(ctx, func(tx ledger.Tx) error {
		var err error
		m, err = readMetadata(tx, modelID)
		if err != nil {
			return err
		}
		m.Status = model.StatusStarted
		val, err := m.Marshal()
		if err != nil {
			return err
		}

		return tx.Put(key.ModelMetadata(modelID), val)
	})
	if err != nil {
		return model.Metadata{}, err
	}

	svc.emit(ctx, StartTrainingEvent, m)

	return m, nil
}

func (svc *service) GetModelMetadata(ctx context.Context, modelID string) (model.Metadata, error) {
	var m model.Metadata
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		m, err = readMetadata(tx, modelID)

		return err
	})
	if err != nil {
		return model.Metadata{}, err
	}

	return m, nil
}

func (svc *service) AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (model.Metadata, error) {
	claims, err := identity.RequireRole(ctx, identity.RoleTrainer)
	if err != nil {
		return model.Metadata{}, err
	}

	size, err := parsePositiveInt(datasetSize, "datasetSize")
	if err != nil {
		return model.Metadata{}, err
	}

	var m model.Metadata
	var update model.ClientUpdate
	err = svc.ledger.Update(ctx, func(tx ledger.Tx) error {
		m, err = readMetadata(tx, modelID)
		if err != nil {
			return err
		}

		update = model.ClientUpdate{
			ModelID:     modelID,
			Round:       m.CurrentRound,
			Weights:     weights,
			DatasetSize: size,
		}
		val, err := update.Marshal()
		if err != nil {
			return err
		}

		return tx.Put(key.ClientUpdate(modelID, m.CurrentRound, claims.EnrollmentID), val)
	})
	if err != nil {
		return model.Metadata{}, err
	}

	svc.logger.InfoContext(ctx, "Client update stored",
		slog.String("model_id", modelID),
		slog.Int("round", m.CurrentRound),
		slog.String("client_id", claims.EnrollmentID))

	svc.emit(ctx, OriginalModelAddedEvent, update.Redacted())

	return m, nil
}

func (svc *service) AddOriginalModelCBOR(ctx context.Context, data []byte) (model.Metadata, error) {
	var sub struct {
		ModelID     string `cbor:"model_id"`
		Weights     string `cbor:"weights"`
		DatasetSize string `cbor:"dataset_size"`
	}
	if err := cbor.Unmarshal(data, &sub); err != nil {
		return model.Metadata{}, fmt.Errorf("%w: %w", errors.ErrInvalidArgument, err)
	}

	return svc.AddOriginalModel(ctx, sub.ModelID, sub.Weights, sub.DatasetSize)
}

func (svc *service) GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (int, error) {
	var received int
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		m, err := readMetadata(tx, modelID)
		if err != nil {
			return err
		}
		received, err = countReceived(tx, modelID, m.CurrentRound)

		return err
	})
	if err != nil {
		return 0, err
	}

	return received, nil
}

func (svc *service) CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (bool, error) {
	var received, required int
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		m, err := readMetadata(tx, modelID)
		if err != nil {
			return err
		}
		required = m.ClientsPerRound
		received, err = countReceived(tx, modelID, m.CurrentRound)

		return err
	})
	if err != nil {
		return false, err
	}

	switch {
	case received == required:
		return true, nil
	case received > required:
		svc.logger.WarnContext(ctx, "Received more client updates than required",
			slog.String("model_id", modelID),
			slog.Int("received", received),
			slog.Int("required", required))
	default:
		svc.logger.InfoContext(ctx, "Waiting for more client updates",
			slog.String("model_id", modelID),
			slog.Int("received", received),
			slog.Int("required", required))
	}

	return false, nil
}

func (svc *service) AddEndRoundModel(ctx context.Context, modelID, weights string) (model.Metadata, error) {
	if _, err := identity.RequireRole(ctx, identity.RoleLeadAggregator); err != nil {
		return model.Metadata{}, err
	}

	var prev, next model.Metadata
	var finished bool
	err := svc.ledger.Update(ctx, func(tx ledger.Tx) error {
		var err error
		prev, err = readMetadata(tx, modelID)
		if err != nil {
			return err
		}

		agg := model.EndRoundModel{
			ModelID: modelID,
			Round:   strconv.Itoa(prev.CurrentRound),
			Weights: weights,
		}
		val, err := agg.Marshal()
		if err != nil {
			return err
		}
		if err := tx.Put(key.EndRoundModel(modelID, prev.CurrentRound), val); err != nil {
			return err
		}

		// The aggregate write and the round advancement commit together;
		// a round must never have one without the other.
		finished = prev.CurrentRound+1 >= prev.TrainingRounds
		next = prev
		next.CurrentRound = prev.CurrentRound + 1
		next.Status = model.StatusStarted
		if finished {
			next.Status = model.StatusFinished
		}
		mval, err := next.Marshal()
		if err != nil {
			return err
		}

		return tx.Put(key.ModelMetadata(modelID), mval)
	})
	if err != nil {
		return model.Metadata{}, err
	}

	if finished {
		svc.logger.InfoContext(ctx, "Training finished", slog.String("model_id", modelID))
		svc.emit(ctx, TrainingFinishedEvent, prev)
	} else {
		svc.logger.InfoContext(ctx, "Round finished",
			slog.String("model_id", modelID),
			slog.Int("round", prev.CurrentRound))
		svc.emit(ctx, RoundFinishedEvent, prev)
	}

	return next, nil
}

func (svc *service) GetEndRoundModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	var agg model.EndRoundModel
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		m, err := readMetadata(tx, modelID)
		if err != nil {
			return err
		}

		previousRound := m.CurrentRound - 1
		val, err := tx.Get(key.EndRoundModel(modelID, previousRound))
		if err != nil {
			return fmt.Errorf("%w: end round model for model %s round %d", errors.ErrNotFound, modelID, previousRound)
		}
		agg, err = model.UnmarshalEndRoundModel(val)

		return err
	})
	if err != nil {
		return model.EndRoundModel{}, err
	}

	return agg, nil
}

func (svc *service) GetTrainedModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	var agg model.EndRoundModel
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		m, err := readMetadata(tx, modelID)
		if err != nil {
			return err
		}
		if m.Status != model.StatusFinished {
			return fmt.Errorf("%w: model %s", errors.ErrTrainingNotFinished, modelID)
		}

		// Rounds are zero-based, so the final aggregate sits at
		// trainingRounds-1.
		val, err := tx.Get(key.EndRoundModel(modelID, m.TrainingRounds-1))
		if err != nil {
			return err
		}
		agg, err = model.UnmarshalEndRoundModel(val)

		return err
	})
	if err != nil {
		return model.EndRoundModel{}, err
	}

	return agg, nil
}

func (svc *service) GetOriginalModelList(ctx context.Context, modelID string, round int) (model.ClientUpdateList, error) {
	if _, err := identity.RequireRole(ctx, identity.RoleLeadAggregator); err != nil {
		return model.ClientUpdateList{}, err
	}

	var list model.ClientUpdateList
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		list, err = svc.scanUpdates(ctx, tx, modelID, round)

		return err
	})
	if err != nil {
		return model.ClientUpdateList{}, err
	}

	return list, nil
}

func (svc *service) GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (model.ClientUpdateList, error) {
	if _, err := identity.RequireRole(ctx, identity.RoleLeadAggregator); err != nil {
		return model.ClientUpdateList{}, err
	}

	var list model.ClientUpdateList
	err := svc.ledger.View(ctx, func(tx ledger.Tx) error {
		m, err := readMetadata(tx, modelID)
		if err != nil {
			return err
		}
		list, err = svc.scanUpdates(ctx, tx, modelID, m.CurrentRound)

		return err
	})
	if err != nil {
		return model.ClientUpdateList{}, err
	}

	return list, nil
}

func (svc *service) GetPersonalInfo(ctx context.Context) (model.PersonalInfo, error) {
	claims, err := identity.FromContext(ctx)
	if err != nil {
		return model.PersonalInfo{}, err
	}

	info := model.PersonalInfo{
		ClientID: claims.ID,
		Role:     claims.Role(),
		MSPID:    claims.MSPID,
		Username: claims.EnrollmentID,
	}

	if info.Role != identity.RoleTrainer {
		return info, nil
	}

	selected := false
	err = svc.ledger.View(ctx, func(tx ledger.Tx) error {
		val, err := tx.Get(key.RoundSelection(claims.EnrollmentID))
		if err == nil && len(val) > 0 {
			selected = true
		}

		return nil
	})
	if err != nil {
		return model.PersonalInfo{}, err
	}
	info.SelectedForRound = &selected

	return info, nil
}

func (svc *service) HasRole(ctx context.Context, role string) (bool, error) {
	claims, err := identity.FromContext(ctx)
	if err != nil {
		return false, nil
	}

	return claims.HasRole(role), nil
}

func (svc *service) scanUpdates(ctx context.Context, tx ledger.Tx, modelID string, round int) (model.ClientUpdateList, error) {
	entries, err := tx.Scan(key.ClientUpdatePrefix(modelID, round))
	if err != nil {
		return model.ClientUpdateList{}, err
	}

	updates := make([]model.ClientUpdate, 0, len(entries))
	for _, e := range entries {
		if len(e.Value) == 0 {
			svc.logger.WarnContext(ctx, "Skipping empty client update", slog.String("key", e.Key))

			continue
		}
		u, err := model.UnmarshalClientUpdate(e.Value)
		if err != nil {
			svc.logger.WarnContext(ctx, "Skipping unreadable client update",
				slog.String("key", e.Key),
				slog.Any("error", err))

			continue
		}
		updates = append(updates, u)
	}

	return model.ClientUpdateList{Updates: updates}, nil
}

func (svc *service) emit(ctx context.Context, event string, payload any) {
	if svc.notifier == nil {
		return
	}
	if err := svc.notifier.Emit(ctx, event, payload); err != nil {
		svc.logger.WarnContext(ctx, "Failed to emit event",
			slog.String("event", event),
			slog.Any("error", err))
	}
}

// countReceived counts stored updates with a non-empty value; it does not
// validate their schema.
func countReceived(tx ledger.Tx, modelID string, round int) (int, error) {
	entries, err := tx.Scan(key.ClientUpdatePrefix(modelID, round))
	if err != nil {
		return 0, err
	}

	received := 0
	for _, e := range entries {
		if len(e.Value) > 0 {
			received++
		}
	}

	return received, nil
}

func readMetadata(tx ledger.Tx, modelID string) (model.Metadata, error) {
	val, err := tx.Get(key.ModelMetadata(modelID))
	if err != nil {
		return model.Metadata{}, fmt.Errorf("%w: model metadata %s", errors.ErrNotFound, modelID)
	}

	return model.UnmarshalMetadata(val)
}

func parsePositiveInt(s, field string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", errors.ErrInvalidArgument, field, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", errors.ErrInvalidArgument, field, v)
	}

	return v, nil
}
