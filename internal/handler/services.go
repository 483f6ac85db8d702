package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// ExperimentService is implemented by *service.ExperimentService
type ExperimentService interface {
	List(ctx context.Context) ([]domain.Experiment, error)
	GetByName(ctx context.Context, name string) (*domain.Experiment, error)
	Create(ctx context.Context, input *domain.ExperimentInput) (*domain.Experiment, error)
	TurkPage(ctx context.Context) (*domain.TurkPage, error)
}

// SubmissionService is implemented by *service.SubmissionService
type SubmissionService interface {
	SubmitResult(ctx context.Context, experimentName, useragent string, input *domain.CanvasSubmission) (*domain.Canvas, error)
	SubmitTurk(ctx context.Context, input *domain.TurkSubmission) (*domain.Sample, error)
	GetResult(ctx context.Context, experimentName string, id uuid.UUID) (*domain.CanvasWithSample, error)
	ListResults(ctx context.Context, experimentName string) ([]domain.CanvasSummary, error)
	DeleteResult(ctx context.Context, experimentName string, id uuid.UUID) error
	ResultPixels(ctx context.Context, experimentName string, id uuid.UUID) (string, error)
}

// AnalysisService is implemented by *service.AnalysisService
type AnalysisService interface {
	GroupExperiment(ctx context.Context, name string, extraExcluded []string) (*domain.GroupResponse, error)
	Compare(ctx context.Context, name string, canvasID uuid.UUID) (*domain.CompareResponse, error)
	GroupSamples(ctx context.Context, extraExcluded []string) (*domain.GroupResponse, error)
}

// ExportEnqueuer is implemented by *worker.ExportEnqueuer
type ExportEnqueuer interface {
	EnqueueExport(ctx context.Context, req *domain.ExportRequest) (*domain.ExportJob, error)
}
