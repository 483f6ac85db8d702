package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/fingerprint"
	"github.com/canvasprint/canvasprint/internal/imagecodec"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
	"github.com/canvasprint/canvasprint/internal/pkg/metrics"
)

// Metadata keys attached to every analysed record. Sort keys in
// config.AnalysisConfig refer to these.
const (
	MetaBrowser      = "browser"
	MetaGraphicsCard = "graphics_card"
	MetaUserAgent    = "useragent"
	MetaUserInput    = "userinput"
	MetaWebGLVendor  = "webgl_vendor"
	MetaSampleID     = "sample_id"
)

// AnalysisService groups canvases into equivalence classes and scores how
// identifying the renderings are
type AnalysisService struct {
	experimentRepo ExperimentRepository
	sampleRepo     SampleRepository
	canvasRepo     CanvasRepository
	cfg            config.AnalysisConfig
	rules          []exclusionRule
	logger         *zap.Logger
}

// NewAnalysisService creates a new analysis service. It fails if an
// exclusion rule has an invalid pattern.
func NewAnalysisService(
	experimentRepo ExperimentRepository,
	sampleRepo SampleRepository,
	canvasRepo CanvasRepository,
	cfg config.AnalysisConfig,
	logger *zap.Logger,
) (*AnalysisService, error) {
	rules, err := compileRules(cfg.Exclusions)
	if err != nil {
		return nil, err
	}

	return &AnalysisService{
		experimentRepo: experimentRepo,
		sampleRepo:     sampleRepo,
		canvasRepo:     canvasRepo,
		cfg:            cfg,
		rules:          rules,
		logger:         logger,
	}, nil
}

// GroupExperiment groups the canvases of one experiment. Samples matched by
// a configured exclusion rule or listed in extraExcluded are left out.
func (s *AnalysisService) GroupExperiment(ctx context.Context, name string, extraExcluded []string) (*domain.GroupResponse, error) {
	experiment, err := s.experimentRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	result, err := s.groupCanvases(ctx, experiment, forExperiment(s.rules, name, extraExcluded))
	if err != nil {
		return nil, err
	}
	return groupResponse(name, result), nil
}

// Compare groups every canvas of an experiment, with no exclusions, and
// reports which group the given canvas landed in
func (s *AnalysisService) Compare(ctx context.Context, name string, canvasID uuid.UUID) (*domain.CompareResponse, error) {
	experiment, err := s.experimentRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, err := s.canvasRepo.Get(ctx, experiment.ID, canvasID); err != nil {
		return nil, err
	}

	result, err := s.groupCanvases(ctx, experiment, nil)
	if err != nil {
		return nil, err
	}

	idx := result.ClassOf(canvasID.String())
	if idx < 0 {
		// deleted between the lookup and the listing
		return nil, apperrors.NotFound("canvas")
	}

	return &domain.CompareResponse{
		GroupResponse: *groupResponse(name, result),
		CanvasID:      canvasID.String(),
		ClassIndex:    idx,
	}, nil
}

func (s *AnalysisService) groupCanvases(ctx context.Context, experiment *domain.Experiment, excluded fingerprint.KeySet) (*fingerprint.Result[fingerprint.Handle], error) {
	canvases, err := s.canvasRepo.ListByExperiment(ctx, experiment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load canvases: %w", err)
	}

	records := make([]fingerprint.Record[fingerprint.Handle], len(canvases))
	for i := range canvases {
		c := &canvases[i]
		records[i] = fingerprint.Record[fingerprint.Handle]{
			ID:         c.ID.String(),
			Image:      imagecodec.Canvas(c.PNG, c.Pixels, 0),
			Metadata:   sampleMetadata(&c.Sample),
			ExcludeKey: c.Sample.UserID(),
		}
	}

	engine := fingerprint.New[fingerprint.Handle](fingerprint.PixelOracle{})
	return runAnalysis(s, experiment.Name, engine, records, fingerprint.Ordering{
		Members: s.cfg.MemberKeys,
		Classes: s.cfg.ClassKeys,
	}, excluded)
}

// GroupSamples groups whole samples: two samples are equivalent when they
// rendered identical images for every experiment they ran. Samples that
// submitted no canvas are left out and do not count towards the total.
func (s *AnalysisService) GroupSamples(ctx context.Context, extraExcluded []string) (*domain.GroupResponse, error) {
	samples, err := s.sampleRepo.ListWithCanvases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}

	records := make([]fingerprint.Record[fingerprint.Sequence], len(samples))
	for i := range samples {
		sc := &samples[i]
		seq := make(fingerprint.Sequence, len(sc.Canvases))
		for j, c := range sc.Canvases {
			seq[j] = imagecodec.Canvas(c.PNG, c.Pixels, 0)
		}
		records[i] = fingerprint.Record[fingerprint.Sequence]{
			ID:         sc.Sample.ID.String(),
			Image:      seq,
			Metadata:   sampleMetadata(&sc.Sample),
			ExcludeKey: sc.Sample.UserID(),
		}
	}

	engine := fingerprint.New[fingerprint.Sequence](fingerprint.SequenceOracle{})
	result, err := runAnalysis(s, domain.SampleScope, engine, records, fingerprint.Ordering{
		Members: s.cfg.MemberKeys,
		Classes: s.cfg.SampleClassKeys,
	}, forSamples(s.rules, extraExcluded))
	if err != nil {
		return nil, err
	}
	return groupResponse(domain.SampleScope, result), nil
}

func runAnalysis[H any](
	s *AnalysisService,
	scope string,
	engine *fingerprint.Engine[H],
	records []fingerprint.Record[H],
	ordering fingerprint.Ordering,
	excluded fingerprint.KeySet,
) (*fingerprint.Result[H], error) {
	start := time.Now()
	result, err := engine.AnalyzeOrdered(records, ordering, excluded)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordAnalysisFailure(scope)
		s.logger.Warn("Analysis failed",
			zap.String("scope", scope),
			zap.Int("records", len(records)),
			zap.Error(err),
		)
		return nil, apperrors.FromAnalysis(err)
	}

	metrics.RecordAnalysis(scope, duration, len(result.Classes), result.Entropy)
	s.logger.Info("Analysis complete",
		zap.String("scope", scope),
		zap.Int("records", result.Total),
		zap.Int("excluded", result.Excluded),
		zap.Int("classes", len(result.Classes)),
		zap.Float64("entropy", result.Entropy),
		zap.Duration("duration", duration),
	)
	return result, nil
}

func sampleMetadata(s *domain.Sample) map[string]string {
	return map[string]string{
		MetaBrowser:      s.Browser(),
		MetaGraphicsCard: s.GraphicsCard(),
		MetaUserAgent:    s.UserAgent,
		MetaUserInput:    s.UserInput,
		MetaWebGLVendor:  s.WebGLVendor,
		MetaSampleID:     s.ID.String(),
	}
}

func groupResponse[H any](scope string, r *fingerprint.Result[H]) *domain.GroupResponse {
	resp := &domain.GroupResponse{
		Experiment: scope,
		Total:      r.Total,
		Excluded:   r.Excluded,
		Entropy:    r.Entropy,
		MaxEntropy: r.MaxEntropy(),
		Classes:    make([]domain.GroupView, len(r.Classes)),
	}
	for i, class := range r.Classes {
		view := domain.GroupView{
			Size:    class.Size(),
			Members: make([]domain.GroupMember, len(class.Members)),
		}
		for j, m := range class.Members {
			view.Members[j] = domain.GroupMember{
				ID:           m.ID,
				SampleID:     m.Field(MetaSampleID),
				Browser:      m.Field(MetaBrowser),
				GraphicsCard: m.Field(MetaGraphicsCard),
				UserAgent:    m.Field(MetaUserAgent),
			}
		}
		resp.Classes[i] = view
	}
	return resp
}
