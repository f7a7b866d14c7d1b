package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/absmach/fedledger/model"
)

// MockService is a mock implementation of the coordinator.Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateModelMetadata(ctx context.Context, modelID, name, clientsPerRound, trainingRounds string) (model.Metadata, error) {
	args := m.Called(ctx, modelID, name, clientsPerRound, trainingRounds)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) StartTraining(ctx context.Context, modelID string) (model.Metadata, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) GetModelMetadata(ctx context.Context, modelID string) (model.Metadata, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) AddOriginalModel(ctx context.Context, modelID, weights, datasetSize string) (model.Metadata, error) {
	args := m.Called(ctx, modelID, weights, datasetSize)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) AddOriginalModelCBOR(ctx context.Context, data []byte) (model.Metadata, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) GetNumberOfReceivedOriginalModels(ctx context.Context, modelID string) (int, error) {
	args := m.Called(ctx, modelID)
	return args.Int(0), args.Error(1)
}

func (m *MockService) CheckAllOriginalModelsReceived(ctx context.Context, modelID string) (bool, error) {
	args := m.Called(ctx, modelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) AddEndRoundModel(ctx context.Context, modelID, weights string) (model.Metadata, error) {
	args := m.Called(ctx, modelID, weights)
	return args.Get(0).(model.Metadata), args.Error(1)
}

func (m *MockService) GetEndRoundModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(model.EndRoundModel), args.Error(1)
}

func (m *MockService) GetTrainedModel(ctx context.Context, modelID string) (model.EndRoundModel, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(model.EndRoundModel), args.Error(1)
}

func (m *MockService) GetOriginalModelList(ctx context.Context, modelID string, round int) (model.ClientUpdateList, error) {
	args := m.Called(ctx, modelID, round)
	return args.Get(0).(model.ClientUpdateList), args.Error(1)
}

func (m *MockService) GetOriginalModelListForCurrentRound(ctx context.Context, modelID string) (model.ClientUpdateList, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(model.ClientUpdateList), args.Error(1)
}

func (m *MockService) GetPersonalInfo(ctx context.Context) (model.PersonalInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PersonalInfo), args.Error(1)
}

func (m *MockService) HasRole(ctx context.Context, role string) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}
