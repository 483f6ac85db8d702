package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
	"github.com/canvasprint/canvasprint/internal/testutil"
)

// MockExperimentService mocks the experiment service for testing.
type MockExperimentService struct {
	mock.Mock
}

func (m *MockExperimentService) List(ctx context.Context) ([]domain.Experiment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experiment), args.Error(1)
}

func (m *MockExperimentService) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

func (m *MockExperimentService) Create(ctx context.Context, input *domain.ExperimentInput) (*domain.Experiment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

func (m *MockExperimentService) TurkPage(ctx context.Context) (*domain.TurkPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TurkPage), args.Error(1)
}

// MockSubmissionService mocks the submission service for testing.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) SubmitResult(ctx context.Context, experimentName, useragent string, input *domain.CanvasSubmission) (*domain.Canvas, error) {
	args := m.Called(ctx, experimentName, useragent, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Canvas), args.Error(1)
}

func (m *MockSubmissionService) SubmitTurk(ctx context.Context, input *domain.TurkSubmission) (*domain.Sample, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sample), args.Error(1)
}

func (m *MockSubmissionService) GetResult(ctx context.Context, experimentName string, id uuid.UUID) (*domain.CanvasWithSample, error) {
	args := m.Called(ctx, experimentName, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanvasWithSample), args.Error(1)
}

func (m *MockSubmissionService) ListResults(ctx context.Context, experimentName string) ([]domain.CanvasSummary, error) {
	args := m.Called(ctx, experimentName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CanvasSummary), args.Error(1)
}

func (m *MockSubmissionService) DeleteResult(ctx context.Context, experimentName string, id uuid.UUID) error {
	args := m.Called(ctx, experimentName, id)
	return args.Error(0)
}

func (m *MockSubmissionService) ResultPixels(ctx context.Context, experimentName string, id uuid.UUID) (string, error) {
	args := m.Called(ctx, experimentName, id)
	return args.String(0), args.Error(1)
}

// MockAnalysisService mocks the analysis service for testing.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) GroupExperiment(ctx context.Context, name string, extraExcluded []string) (*domain.GroupResponse, error) {
	args := m.Called(ctx, name, extraExcluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupResponse), args.Error(1)
}

func (m *MockAnalysisService) Compare(ctx context.Context, name string, canvasID uuid.UUID) (*domain.CompareResponse, error) {
	args := m.Called(ctx, name, canvasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompareResponse), args.Error(1)
}

func (m *MockAnalysisService) GroupSamples(ctx context.Context, extraExcluded []string) (*domain.GroupResponse, error) {
	args := m.Called(ctx, extraExcluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupResponse), args.Error(1)
}

// MockExportEnqueuer mocks the export queue for testing.
type MockExportEnqueuer struct {
	mock.Mock
}

func (m *MockExportEnqueuer) EnqueueExport(ctx context.Context, req *domain.ExportRequest) (*domain.ExportJob, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportJob), args.Error(1)
}

type testMocks struct {
	experiments *MockExperimentService
	submissions *MockSubmissionService
	analysis    *MockAnalysisService
	exports     *MockExportEnqueuer
}

func (m *testMocks) assertExpectations(t *testing.T) {
	m.experiments.AssertExpectations(t)
	m.submissions.AssertExpectations(t)
	m.analysis.AssertExpectations(t)
	m.exports.AssertExpectations(t)
}

func denyAdmin(c *fiber.Ctx) error {
	return apperrors.Unauthorized("admin token required")
}

// setupTestApp mounts the API on /api. Admin routes are open unless
// admin is false.
func setupTestApp(admin bool) (*fiber.App, *testMocks) {
	m := &testMocks{
		experiments: new(MockExperimentService),
		submissions: new(MockSubmissionService),
		analysis:    new(MockAnalysisService),
		exports:     new(MockExportEnqueuer),
	}

	logger := zap.NewNop()
	h := &Handlers{
		Experiments: NewExperimentHandler(logger, m.experiments),
		Results:     NewResultHandler(logger, m.submissions),
		Analysis:    NewAnalysisHandler(logger, m.analysis),
		Turk:        NewTurkHandler(logger, m.experiments, m.submissions),
		Exports:     NewExportHandler(logger, m.exports),
	}

	guard := fiber.Handler(denyAdmin)
	if admin {
		guard = testutil.TestAdminMiddleware("tester")
	}

	app := testutil.NewTestApp()
	RegisterAPI(app.Group("/api"), h, guard)
	return app, m
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}

func decodeError(t *testing.T, resp *http.Response) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	decodeJSON(t, resp, &env)
	return env
}
