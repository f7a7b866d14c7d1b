// Package coordinator implements round-synchronized coordination of a
// federated training job on top of a shared key-value ledger. Model weights
// are opaque blobs; the coordinator only tracks lifecycle, admits one update
// per client per round, detects quorum and advances rounds.
package coordinator

import (
	"context"

	"github.com/absmach/fedledger/model"
)

// Domain events emitted on state transitions.
const (
	CreateModelMetadataEvent = "CREATE_MODEL_METADATA_EVENT"
	StartTrainingEvent       = "START_TRAINING_EVENT"
	OriginalModelAddedEvent  = "ORIGINAL_MODEL_ADDED_EVENT"
	RoundFinishedEvent       = "ROUND_FINISHED_EVENT"
	TrainingFinishedEvent    = "TRAINING_FINISHED_EVENT"
)

// Service is the operation contract exposed to external callers. Every
// mutating operation resolves the caller's claims from the context and
// verifies its role attribute before touching the ledger; numeric arguments
// arrive as strings and are validated before any write.
type Service interface {
	// CreateModelMetadata registers a new model with status initiated and
	// round zero. Requires the flAdmin attribute.
	CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (model.Metadata, error)

	// StartTraining flips the model to started. Re-invoking it after the
	// model started re-writes the same status. Requires flAdmin.
	StartTraining(ctx context.Context, modelID string) (model.Metadata, error)

	// GetModelMetadata returns the metadata record of one model.
	GetModelMetadata(ctx context.Context, modelID string) (model.Metadata, error)

	// AddOriginalModel stores the caller's update for the current round,
	// keyed by its enrollment identity. A resubmission for the same round
	// overwrites the prior value. Requires the trainer attribute.
	AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (model.Metadata, error)

	// AddOriginalModelCBOR decodes a CBOR-encoded update submission and
	// stores it via AddOriginalModel.
	AddOriginalModelCBOR(ctx context.Context, data []byte) (model.Metadata, error)

	// GetNumberOfReceivedOriginalModels counts non-empty updates stored for
	// the model's current round.
	GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (int, error)

	// CheckAllOriginalModelsReceived reports whether the received count
	// equals clientsPerRound. An overshoot is logged and reported false.
	CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (bool, error)

	// AddEndRoundModel publishes the aggregate for the current round and, in
	// the same transaction, advances the round, finishing the training when
	// the advanced round count reaches trainingRounds. Requires the
	// leadAggregator attribute.
	AddEndRoundModel(ctx context.Context, modelID, weights string) (model.Metadata, error)

	// GetEndRoundModel returns the previous round's aggregate, the starting
	// point for participants of the current round.
	GetEndRoundModel(ctx context.Context, modelID string) (model.EndRoundModel, error)

	// GetTrainedModel returns the final aggregate once training finished.
	GetTrainedModel(ctx context.Context, modelID string) (model.EndRoundModel, error)

	// GetOriginalModelList returns the decoded updates of one round in key
	// order. Requires the leadAggregator attribute.
	GetOriginalModelList(ctx context.Context, modelID string, round int) (model.ClientUpdateList, error)

	// GetOriginalModelListForCurrentRound is GetOriginalModelList for the
	// model's current round.
	GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (model.ClientUpdateList, error)

	// GetPersonalInfo returns the caller's identity, role and, for
	// trainers, its round-selection flag.
	GetPersonalInfo(ctx context.Context) (model.PersonalInfo, error)

	// HasRole reports whether the caller carries the named role attribute.
	HasRole(ctx context.Context, role string) (bool, error)
}
