package coordinator_test

import (
	"context"
	"log/slog"
	"strconv"
	"testing"

	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/model"
	"github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/identity"
	"github.com/absmach/fedledger/pkg/ledger"
	"github.com/absmach/fedledger/pkg/notifier"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSink interface {
	notifier.Notifier
	Events() []notifier.Event
}

func newTestService(t *testing.T) (coordinator.Service, testSink) {
	t.Helper()

	sink := notifier.NewMemorySink()
	svc := coordinator.NewService(ledger.NewInMemoryLedger(), sink, slog.Default())

	return svc, sink
}

func adminCtx() context.Context {
	return identity.NewContext(context.Background(), identity.Claims{
		ID:           "x509::CN=admin",
		MSPID:        "Org1MSP",
		EnrollmentID: "admin",
		Attributes:   map[string]bool{identity.RoleFLAdmin: true},
	})
}

func trainerCtx(name string) context.Context {
	return identity.NewContext(context.Background(), identity.Claims{
		ID:           "x509::CN=" + name,
		MSPID:        "Org2MSP",
		EnrollmentID: name,
		Attributes:   map[string]bool{identity.RoleTrainer: true},
	})
}

func aggregatorCtx() context.Context {
	return identity.NewContext(context.Background(), identity.Claims{
		ID:           "x509::CN=aggregator",
		MSPID:        "Org3MSP",
		EnrollmentID: "aggregator",
		Attributes:   map[string]bool{identity.RoleLeadAggregator: true},
	})
}

func TestCreateModelMetadata(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc            string
		ctx             context.Context
		modelID         string
		clientsPerRound string
		trainingRounds  string
		err             error
	}{
		{
			desc:            "valid creation",
			ctx:             adminCtx(),
			modelID:         "mnist",
			clientsPerRound: "3",
			trainingRounds:  "5",
			err:             nil,
		},
		{
			desc:            "non-admin caller",
			ctx:             trainerCtx("alice"),
			modelID:         "mnist",
			clientsPerRound: "3",
			trainingRounds:  "5",
			err:             errors.ErrAccessDenied,
		},
		{
			desc:            "no identity",
			ctx:             context.Background(),
			modelID:         "mnist",
			clientsPerRound: "3",
			trainingRounds:  "5",
			err:             errors.ErrAccessDenied,
		},
		{
			desc:            "unparsable clientsPerRound",
			ctx:             adminCtx(),
			modelID:         "mnist",
			clientsPerRound: "three",
			trainingRounds:  "5",
			err:             errors.ErrInvalidArgument,
		},
		{
			desc:            "zero trainingRounds",
			ctx:             adminCtx(),
			modelID:         "mnist",
			clientsPerRound: "3",
			trainingRounds:  "0",
			err:             errors.ErrInvalidArgument,
		},
		{
			desc:            "negative clientsPerRound",
			ctx:             adminCtx(),
			modelID:         "mnist",
			clientsPerRound: "-1",
			trainingRounds:  "5",
			err:             errors.ErrInvalidArgument,
		},
		{
			desc:            "empty model id",
			ctx:             adminCtx(),
			modelID:         "",
			clientsPerRound: "3",
			trainingRounds:  "5",
			err:             errors.ErrEmptyKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, _ := newTestService(t)

			m, err := svc.CreateModelMetadata(tc.ctx, tc.modelID, "digit classifier", tc.clientsPerRound, tc.trainingRounds)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				_, err := svc.GetModelMetadata(context.Background(), tc.modelID)
				assert.ErrorIs(t, err, errors.ErrNotFound, "no record may exist after a failed creation")

				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.StatusInitiated, m.Status)
			assert.Equal(t, 0, m.CurrentRound)

			got, err := svc.GetModelMetadata(context.Background(), tc.modelID)
			require.NoError(t, err)
			assert.Equal(t, m, got)
			assert.Equal(t, "digit classifier", got.Name)
			assert.Equal(t, 3, got.ClientsPerRound)
			assert.Equal(t, 5, got.TrainingRounds)
		})
	}
}

func TestCreateModelMetadataDuplicate(t *testing.T) {
	t.Parallel()

	svc, sink := newTestService(t)

	first, err := svc.CreateModelMetadata(adminCtx(), "mnist", "first", "2", "3")
	require.NoError(t, err)

	_, err = svc.CreateModelMetadata(adminCtx(), "mnist", "second", "9", "9")
	assert.ErrorIs(t, err, errors.ErrModelExists)

	got, err := svc.GetModelMetadata(context.Background(), "mnist")
	require.NoError(t, err)
	assert.Equal(t, first, got, "failed duplicate creation must leave the first record unchanged")

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, coordinator.CreateModelMetadataEvent, events[0].Name)
	assert.Equal(t, first, events[0].Payload)
}

func TestStartTraining(t *testing.T) {
	t.Parallel()

	svc, sink := newTestService(t)

	_, err := svc.StartTraining(adminCtx(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	created, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "2", "3")
	require.NoError(t, err)

	_, err = svc.StartTraining(trainerCtx("alice"), "mnist")
	assert.ErrorIs(t, err, errors.ErrAccessDenied)

	started, err := svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)
	assert.Equal(t, model.StatusStarted, started.Status)

	// Only the status may change.
	created.Status = model.StatusStarted
	assert.Equal(t, created, started)

	// Re-invocation is a re-entrant no-op, not a guarded transition.
	again, err := svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)
	assert.Equal(t, started, again)

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, coordinator.StartTrainingEvent, events[1].Name)
	assert.Equal(t, started, events[1].Payload)
}

func TestAddOriginalModel(t *testing.T) {
	t.Parallel()

	svc, sink := newTestService(t)

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "2", "3")
	require.NoError(t, err)

	cases := []struct {
		desc        string
		ctx         context.Context
		modelID     string
		datasetSize string
		err         error
	}{
		{
			desc:        "trainer submits update",
			ctx:         trainerCtx("alice"),
			modelID:     "mnist",
			datasetSize: "100",
			err:         nil,
		},
		{
			desc:        "non-trainer caller",
			ctx:         aggregatorCtx(),
			modelID:     "mnist",
			datasetSize: "100",
			err:         errors.ErrAccessDenied,
		},
		{
			desc:        "unknown model",
			ctx:         trainerCtx("alice"),
			modelID:     "missing",
			datasetSize: "100",
			err:         errors.ErrNotFound,
		},
		{
			desc:        "unparsable dataset size",
			ctx:         trainerCtx("alice"),
			modelID:     "mnist",
			datasetSize: "many",
			err:         errors.ErrInvalidArgument,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			m, err := svc.AddOriginalModel(tc.ctx, tc.modelID, "w1,w2", tc.datasetSize)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, m.CurrentRound)
		})
	}

	// The broadcast payload must not carry the weights.
	events := sink.Events()
	var added []notifier.Event
	for _, e := range events {
		if e.Name == coordinator.OriginalModelAddedEvent {
			added = append(added, e)
		}
	}
	require.Len(t, added, 1)
	payload, ok := added[0].Payload.(model.ClientUpdate)
	require.True(t, ok)
	assert.Empty(t, payload.Weights)
	assert.Equal(t, "mnist", payload.ModelID)
	assert.Equal(t, 100, payload.DatasetSize)
}

func TestAddOriginalModelResubmissionOverwrites(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "2", "3")
	require.NoError(t, err)

	_, err = svc.AddOriginalModel(trainerCtx("alice"), "mnist", "first", "100")
	require.NoError(t, err)
	_, err = svc.AddOriginalModel(trainerCtx("alice"), "mnist", "second", "200")
	require.NoError(t, err)

	n, err := svc.GetNumberOfReceivedOriginalModels(context.Background(), "mnist")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a resubmission overwrites the trainer's slot, it does not add one")

	list, err := svc.GetOriginalModelList(aggregatorCtx(), "mnist", 0)
	require.NoError(t, err)
	require.Len(t, list.Updates, 1)
	assert.Equal(t, "second", list.Updates[0].Weights)
	assert.Equal(t, 200, list.Updates[0].DatasetSize)
}

func TestAddOriginalModelCBOR(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "1", "1")
	require.NoError(t, err)

	data, err := cbor.Marshal(map[string]string{
		"model_id":     "mnist",
		"weights":      "w",
		"dataset_size": "10",
	})
	require.NoError(t, err)

	m, err := svc.AddOriginalModelCBOR(trainerCtx("alice"), data)
	require.NoError(t, err)
	assert.Equal(t, "mnist", m.ModelID)

	_, err = svc.AddOriginalModelCBOR(trainerCtx("alice"), []byte("not cbor"))
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestQuorumDetection(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "2", "3")
	require.NoError(t, err)
	_, err = svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)

	ok, err := svc.CheckAllOriginalModelsReceived(ctx, "mnist")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.AddOriginalModel(trainerCtx("alice"), "mnist", "wa", "100")
	require.NoError(t, err)

	n, err := svc.GetNumberOfReceivedOriginalModels(ctx, "mnist")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err = svc.CheckAllOriginalModelsReceived(ctx, "mnist")
	require.NoError(t, err)
	assert.False(t, ok, "one of two required updates is not quorum")

	_, err = svc.AddOriginalModel(trainerCtx("bob"), "mnist", "wb", "50")
	require.NoError(t, err)

	ok, err = svc.CheckAllOriginalModelsReceived(ctx, "mnist")
	require.NoError(t, err)
	assert.True(t, ok)

	// A third distinct trainer overshoots the required count: reported as
	// false, not as an error.
	_, err = svc.AddOriginalModel(trainerCtx("carol"), "mnist", "wc", "10")
	require.NoError(t, err)

	ok, err = svc.CheckAllOriginalModelsReceived(ctx, "mnist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddEndRoundModelDrivesRounds(t *testing.T) {
	t.Parallel()

	svc, sink := newTestService(t)

	const rounds = 3
	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "1", strconv.Itoa(rounds))
	require.NoError(t, err)
	_, err = svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)

	_, err = svc.AddEndRoundModel(trainerCtx("alice"), "mnist", "agg")
	assert.ErrorIs(t, err, errors.ErrAccessDenied)

	for round := range rounds {
		pre, err := svc.GetModelMetadata(context.Background(), "mnist")
		require.NoError(t, err)
		assert.Equal(t, round, pre.CurrentRound)

		next, err := svc.AddEndRoundModel(aggregatorCtx(), "mnist", "agg-"+strconv.Itoa(round))
		require.NoError(t, err)
		assert.Equal(t, round+1, next.CurrentRound)

		if round+1 < rounds {
			assert.Equal(t, model.StatusStarted, next.Status)
		} else {
			assert.Equal(t, model.StatusFinished, next.Status)
		}

		// The finish events carry the pre-update snapshot.
		events := sink.Events()
		last := events[len(events)-1]
		if round+1 < rounds {
			assert.Equal(t, coordinator.RoundFinishedEvent, last.Name)
		} else {
			assert.Equal(t, coordinator.TrainingFinishedEvent, last.Name)
		}
		assert.Equal(t, pre, last.Payload)
	}
}

func TestGetEndRoundModel(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "1", "3")
	require.NoError(t, err)
	_, err = svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)

	// No round has finished yet, so there is no previous aggregate.
	_, err = svc.GetEndRoundModel(ctx, "mnist")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = svc.AddEndRoundModel(aggregatorCtx(), "mnist", "agg-0")
	require.NoError(t, err)

	agg, err := svc.GetEndRoundModel(ctx, "mnist")
	require.NoError(t, err)
	assert.Equal(t, "agg-0", agg.Weights)
	assert.Equal(t, "0", agg.Round)
}

func TestGetTrainedModel(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "1", "2")
	require.NoError(t, err)
	_, err = svc.StartTraining(adminCtx(), "mnist")
	require.NoError(t, err)

	_, err = svc.GetTrainedModel(ctx, "mnist")
	assert.ErrorIs(t, err, errors.ErrTrainingNotFinished)

	_, err = svc.AddEndRoundModel(aggregatorCtx(), "mnist", "agg-0")
	require.NoError(t, err)

	_, err = svc.GetTrainedModel(ctx, "mnist")
	assert.ErrorIs(t, err, errors.ErrTrainingNotFinished)

	_, err = svc.AddEndRoundModel(aggregatorCtx(), "mnist", "agg-final")
	require.NoError(t, err)

	agg, err := svc.GetTrainedModel(ctx, "mnist")
	require.NoError(t, err)
	assert.Equal(t, "agg-final", agg.Weights)
}

func TestGetOriginalModelList(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.CreateModelMetadata(adminCtx(), "mnist", "digit classifier", "3", "2")
	require.NoError(t, err)

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err = svc.AddOriginalModel(trainerCtx(name), "mnist", "w-"+name, "10")
		require.NoError(t, err)
	}

	_, err = svc.GetOriginalModelList(trainerCtx("alice"), "mnist", 0)
	assert.ErrorIs(t, err, errors.ErrAccessDenied)

	list, err := svc.GetOriginalModelList(aggregatorCtx(), "mnist", 0)
	require.NoError(t, err)
	require.Len(t, list.Updates, 3)

	// Scan order is lexicographic by client id.
	assert.Equal(t, "w-alice", list.Updates[0].Weights)
	assert.Equal(t, "w-bob", list.Updates[1].Weights)
	assert.Equal(t, "w-carol", list.Updates[2].Weights)

	current, err := svc.GetOriginalModelListForCurrentRound(aggregatorCtx(), "mnist")
	require.NoError(t, err)
	assert.Equal(t, list, current)

	empty, err := svc.GetOriginalModelList(aggregatorCtx(), "mnist", 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Updates)
}

func TestGetPersonalInfo(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.GetPersonalInfo(context.Background())
	assert.ErrorIs(t, err, errors.ErrAccessDenied)

	info, err := svc.GetPersonalInfo(aggregatorCtx())
	require.NoError(t, err)
	assert.Equal(t, identity.RoleLeadAggregator, info.Role)
	assert.Equal(t, "Org3MSP", info.MSPID)
	assert.Nil(t, info.SelectedForRound)

	info, err = svc.GetPersonalInfo(trainerCtx("alice"))
	require.NoError(t, err)
	assert.Equal(t, identity.RoleTrainer, info.Role)
	assert.Equal(t, "alice", info.Username)
	require.NotNil(t, info.SelectedForRound)
	assert.False(t, *info.SelectedForRound, "no selection key has been written for alice")
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	ok, err := svc.HasRole(trainerCtx("alice"), identity.RoleTrainer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasRole(trainerCtx("alice"), identity.RoleFLAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasRole(context.Background(), identity.RoleTrainer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFullTrainingScenario(t *testing.T) {
	t.Parallel()

	svc, sink := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateModelMetadata(adminCtx(), "cifar", "image classifier", "2", "1")
	require.NoError(t, err)

	_, err = svc.StartTraining(adminCtx(), "cifar")
	require.NoError(t, err)

	_, err = svc.AddOriginalModel(trainerCtx("alice"), "cifar", "wa", "600")
	require.NoError(t, err)
	_, err = svc.AddOriginalModel(trainerCtx("bob"), "cifar", "wb", "400")
	require.NoError(t, err)

	ok, err := svc.CheckAllOriginalModelsReceived(ctx, "cifar")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := svc.GetOriginalModelListForCurrentRound(aggregatorCtx(), "cifar")
	require.NoError(t, err)
	assert.Len(t, list.Updates, 2)

	_, err = svc.AddEndRoundModel(aggregatorCtx(), "cifar", "agg-weights")
	require.NoError(t, err)

	m, err := svc.GetModelMetadata(ctx, "cifar")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, m.Status)
	assert.Equal(t, 1, m.CurrentRound)

	trained, err := svc.GetTrainedModel(ctx, "cifar")
	require.NoError(t, err)
	assert.Equal(t, "agg-weights", trained.Weights)

	names := make([]string, 0, len(sink.Events()))
	for _, e := range sink.Events() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		coordinator.CreateModelMetadataEvent,
		coordinator.StartTrainingEvent,
		coordinator.OriginalModelAddedEvent,
		coordinator.OriginalModelAddedEvent,
		coordinator.TrainingFinishedEvent,
	}, names)
}
