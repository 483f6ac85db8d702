package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// ExperimentRepository defines experiment repository operations
type ExperimentRepository interface {
	Create(ctx context.Context, experiment *domain.Experiment) error
	GetByName(ctx context.Context, name string) (*domain.Experiment, error)
	List(ctx context.Context) ([]domain.Experiment, error)
	ListMT(ctx context.Context) ([]domain.Experiment, error)
}

// SampleRepository defines sample repository operations
type SampleRepository interface {
	Create(ctx context.Context, sample *domain.Sample) error
	FindByAgent(ctx context.Context, useragent, userinput string) (*domain.Sample, error)
	CreateWithCanvases(ctx context.Context, sample *domain.Sample, canvases []domain.Canvas) error
	ListWithCanvases(ctx context.Context) ([]domain.SampleCanvases, error)
}

// CanvasRepository defines canvas repository operations
type CanvasRepository interface {
	Upsert(ctx context.Context, canvas *domain.Canvas) error
	Get(ctx context.Context, experimentID, id uuid.UUID) (*domain.CanvasWithSample, error)
	ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.CanvasWithSample, error)
	Delete(ctx context.Context, experimentID, id uuid.UUID) error
}
