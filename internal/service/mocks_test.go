package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// MockExperimentRepository is a mock implementation of ExperimentRepository
type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment) error {
	args := m.Called(ctx, experiment)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) List(ctx context.Context) ([]domain.Experiment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) ListMT(ctx context.Context) ([]domain.Experiment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experiment), args.Error(1)
}

// MockSampleRepository is a mock implementation of SampleRepository
type MockSampleRepository struct {
	mock.Mock
}

func (m *MockSampleRepository) Create(ctx context.Context, sample *domain.Sample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockSampleRepository) FindByAgent(ctx context.Context, useragent, userinput string) (*domain.Sample, error) {
	args := m.Called(ctx, useragent, userinput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sample), args.Error(1)
}

func (m *MockSampleRepository) CreateWithCanvases(ctx context.Context, sample *domain.Sample, canvases []domain.Canvas) error {
	args := m.Called(ctx, sample, canvases)
	return args.Error(0)
}

func (m *MockSampleRepository) ListWithCanvases(ctx context.Context) ([]domain.SampleCanvases, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SampleCanvases), args.Error(1)
}

// MockCanvasRepository is a mock implementation of CanvasRepository
type MockCanvasRepository struct {
	mock.Mock
}

func (m *MockCanvasRepository) Upsert(ctx context.Context, canvas *domain.Canvas) error {
	args := m.Called(ctx, canvas)
	return args.Error(0)
}

func (m *MockCanvasRepository) Get(ctx context.Context, experimentID, id uuid.UUID) (*domain.CanvasWithSample, error) {
	args := m.Called(ctx, experimentID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanvasWithSample), args.Error(1)
}

func (m *MockCanvasRepository) ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.CanvasWithSample, error) {
	args := m.Called(ctx, experimentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CanvasWithSample), args.Error(1)
}

func (m *MockCanvasRepository) Delete(ctx context.Context, experimentID, id uuid.UUID) error {
	args := m.Called(ctx, experimentID, id)
	return args.Error(0)
}
