package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/imagecodec"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// SubmissionService stores the canvases browsers send back
type SubmissionService struct {
	experimentRepo ExperimentRepository
	sampleRepo     SampleRepository
	canvasRepo     CanvasRepository
	logger         *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	experimentRepo ExperimentRepository,
	sampleRepo SampleRepository,
	canvasRepo CanvasRepository,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		experimentRepo: experimentRepo,
		sampleRepo:     sampleRepo,
		canvasRepo:     canvasRepo,
		logger:         logger,
	}
}

// SubmitResult stores the canvas a browser rendered for an experiment.
// There is one sample per user agent and title; a repeated upload replaces
// the sample's canvas for the experiment.
func (s *SubmissionService) SubmitResult(ctx context.Context, experimentName, useragent string, input *domain.CanvasSubmission) (*domain.Canvas, error) {
	pixels := withWidth(input.Pixels, input.Width)
	if err := checkDecodable(input.PNG, pixels); err != nil {
		return nil, err
	}

	experiment, err := s.experimentRepo.GetByName(ctx, experimentName)
	if err != nil {
		return nil, err
	}

	sample, err := s.sampleRepo.FindByAgent(ctx, useragent, input.Title)
	if apperrors.IsNotFound(err) {
		sample = &domain.Sample{
			ID:        uuid.New(),
			UserAgent: useragent,
			UserInput: input.Title,
			CreatedAt: time.Now(),
		}
		if err := s.sampleRepo.Create(ctx, sample); err != nil {
			return nil, fmt.Errorf("failed to create sample: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find sample: %w", err)
	}

	now := time.Now()
	canvas := &domain.Canvas{
		ID:           uuid.New(),
		SampleID:     sample.ID,
		ExperimentID: experiment.ID,
		Pixels:       pixels,
		PNG:          input.PNG,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.canvasRepo.Upsert(ctx, canvas); err != nil {
		return nil, err
	}

	s.logger.Debug("Stored canvas",
		zap.String("experiment", experiment.Name),
		zap.String("canvas_id", canvas.ID.String()),
		zap.String("sample_id", sample.ID.String()),
	)

	return canvas, nil
}

// withWidth turns a bare getImageData array into the self-describing
// {"width","data"} form so the stored payload can be decoded later
func withWidth(pixels string, width int) string {
	trimmed := strings.TrimSpace(pixels)
	if width <= 0 || !strings.HasPrefix(trimmed, "[") {
		return pixels
	}
	return fmt.Sprintf(`{"width":%d,"data":%s}`, width, trimmed)
}

// checkDecodable rejects a payload the analysis could not decode.
func checkDecodable(png, pixels string) *apperrors.AppError {
	if _, err := imagecodec.Canvas(png, pixels, 0).Decode(); err != nil {
		return apperrors.Validation("canvas payload cannot be decoded").WithDetail("reason", err.Error())
	}
	return nil
}

// SubmitTurk stores a Mechanical Turk batch as a new sample with one canvas
// per experiment. Nothing is stored if any experiment is unknown.
func (s *SubmissionService) SubmitTurk(ctx context.Context, input *domain.TurkSubmission) (*domain.Sample, error) {
	names := make([]string, 0, len(input.Canvases))
	for name := range input.Canvases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := checkDecodable(input.Canvases[name], ""); err != nil {
			return nil, err.WithDetail("experiment", name)
		}
	}

	now := time.Now()
	sample := &domain.Sample{
		ID:            uuid.New(),
		UserAgent:     input.UserAgent,
		UserInput:     input.Input,
		WebGLVendor:   input.WebGLVendor,
		WebGLVersion:  input.WebGLVersion,
		WebGLRenderer: input.WebGLRenderer,
		AssignmentID:  input.AssignmentID,
		CreatedAt:     now,
	}

	canvases := make([]domain.Canvas, 0, len(names))
	for _, name := range names {
		experiment, err := s.experimentRepo.GetByName(ctx, name)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown experiment %q", name)).WithDetail("experiment", name)
		}
		if err != nil {
			return nil, err
		}
		canvases = append(canvases, domain.Canvas{
			ID:           uuid.New(),
			SampleID:     sample.ID,
			ExperimentID: experiment.ID,
			PNG:          input.Canvases[name],
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.sampleRepo.CreateWithCanvases(ctx, sample, canvases); err != nil {
		return nil, fmt.Errorf("failed to store turk submission: %w", err)
	}

	s.logger.Info("Stored turk submission",
		zap.String("sample_id", sample.ID.String()),
		zap.String("assignment_id", sample.AssignmentID),
		zap.Int("canvases", len(canvases)),
	)

	return sample, nil
}

// GetResult returns one canvas of an experiment with its sample
func (s *SubmissionService) GetResult(ctx context.Context, experimentName string, id uuid.UUID) (*domain.CanvasWithSample, error) {
	experiment, err := s.experimentRepo.GetByName(ctx, experimentName)
	if err != nil {
		return nil, err
	}
	return s.canvasRepo.Get(ctx, experiment.ID, id)
}

// ListResults returns summaries of every canvas of an experiment
func (s *SubmissionService) ListResults(ctx context.Context, experimentName string) ([]domain.CanvasSummary, error) {
	experiment, err := s.experimentRepo.GetByName(ctx, experimentName)
	if err != nil {
		return nil, err
	}

	canvases, err := s.canvasRepo.ListByExperiment(ctx, experiment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	summaries := make([]domain.CanvasSummary, len(canvases))
	for i := range canvases {
		summaries[i] = canvases[i].Summarize()
	}
	return summaries, nil
}

// DeleteResult removes one canvas of an experiment
func (s *SubmissionService) DeleteResult(ctx context.Context, experimentName string, id uuid.UUID) error {
	experiment, err := s.experimentRepo.GetByName(ctx, experimentName)
	if err != nil {
		return err
	}
	if err := s.canvasRepo.Delete(ctx, experiment.ID, id); err != nil {
		return err
	}

	s.logger.Info("Deleted canvas",
		zap.String("experiment", experimentName),
		zap.String("canvas_id", id.String()),
	)
	return nil
}

// ResultPixels returns the stored pixel payload of a canvas
func (s *SubmissionService) ResultPixels(ctx context.Context, experimentName string, id uuid.UUID) (string, error) {
	canvas, err := s.GetResult(ctx, experimentName, id)
	if err != nil {
		return "", err
	}
	return canvas.Pixels, nil
}
