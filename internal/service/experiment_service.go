package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// BarrierScript is appended to every Mechanical Turk page. It holds the
// HIT form back until all experiment scripts have rendered.
const BarrierScript = "/barrier.js"

// ExperimentService handles experiment lookup and creation
type ExperimentService struct {
	experimentRepo ExperimentRepository
	logger         *zap.Logger
}

// NewExperimentService creates a new experiment service
func NewExperimentService(experimentRepo ExperimentRepository, logger *zap.Logger) *ExperimentService {
	return &ExperimentService{
		experimentRepo: experimentRepo,
		logger:         logger,
	}
}

// List returns every experiment ordered by name
func (s *ExperimentService) List(ctx context.Context) ([]domain.Experiment, error) {
	experiments, err := s.experimentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	if experiments == nil {
		experiments = []domain.Experiment{}
	}
	return experiments, nil
}

// GetByName returns an experiment or a NotFound error
func (s *ExperimentService) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	return s.experimentRepo.GetByName(ctx, name)
}

// Create registers a new experiment
func (s *ExperimentService) Create(ctx context.Context, input *domain.ExperimentInput) (*domain.Experiment, error) {
	scripts := input.Scripts
	if scripts == nil {
		scripts = []string{}
	}

	experiment := &domain.Experiment{
		ID:        uuid.New(),
		Name:      input.Name,
		Scripts:   scripts,
		MT:        input.MT,
		CreatedAt: time.Now(),
	}

	if err := s.experimentRepo.Create(ctx, experiment); err != nil {
		return nil, err
	}

	s.logger.Info("Created experiment",
		zap.String("experiment_id", experiment.ID.String()),
		zap.String("name", experiment.Name),
		zap.Bool("mt", experiment.MT),
	)

	return experiment, nil
}

// TurkPage returns the Mechanical Turk experiments with the union of their
// scripts in first-seen order, followed by the barrier script
func (s *ExperimentService) TurkPage(ctx context.Context) (*domain.TurkPage, error) {
	experiments, err := s.experimentRepo.ListMT(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list turk experiments: %w", err)
	}
	if experiments == nil {
		experiments = []domain.Experiment{}
	}

	return &domain.TurkPage{
		Experiments: experiments,
		Scripts:     TurkScripts(experiments),
	}, nil
}

// TurkScripts merges the scripts of experiments without duplicates and
// appends BarrierScript
func TurkScripts(experiments []domain.Experiment) []string {
	seen := make(map[string]struct{})
	var scripts []string
	add := func(src string) {
		if _, ok := seen[src]; ok {
			return
		}
		seen[src] = struct{}{}
		scripts = append(scripts, src)
	}

	for _, e := range experiments {
		for _, src := range e.Scripts {
			add(src)
		}
	}
	add(BarrierScript)
	return scripts
}
