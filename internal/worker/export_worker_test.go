package worker

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/circuitbreaker"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) GroupExperiment(ctx context.Context, name string, extraExcluded []string) (*domain.GroupResponse, error) {
	args := m.Called(ctx, name, extraExcluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupResponse), args.Error(1)
}

func (m *MockAnalyzer) GroupSamples(ctx context.Context, extraExcluded []string) (*domain.GroupResponse, error) {
	args := m.Called(ctx, extraExcluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupResponse), args.Error(1)
}

// memoryStore records uploaded objects
type memoryStore struct {
	objects      map[string]string
	contentTypes map[string]string
	err          error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string]string{}, contentTypes: map[string]string{}}
}

func (s *memoryStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if s.err != nil {
		return minio.UploadInfo{}, s.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	key := bucketName + "/" + objectName
	s.objects[key] = string(data)
	s.contentTypes[key] = opts.ContentType
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.task = task
	f.opts = opts
	return &asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil
}

func groupResponse() *domain.GroupResponse {
	return &domain.GroupResponse{
		Experiment: "arial",
		Total:      2,
		Entropy:    0,
		Classes: []domain.GroupView{{
			Size: 2,
			Members: []domain.GroupMember{
				{ID: "c1", SampleID: "s1", Browser: "Chrome 120", GraphicsCard: "ANGLE"},
				{ID: "c2", SampleID: "s2", Browser: "Firefox 121", GraphicsCard: "ANGLE"},
			},
		}},
	}
}

func exportTask(t *testing.T, payload *ExportPayload) *asynq.Task {
	task, err := NewExportTask(payload)
	require.NoError(t, err)
	return task
}

func TestNewExportTask(t *testing.T) {
	payload := &ExportPayload{
		JobID:      uuid.New(),
		Experiment: "arial",
		Format:     domain.ExportFormatCSV,
		Exclude:    []string{"abc"},
	}

	task := exportTask(t, payload)
	assert.Equal(t, TypeAnalysisExport, task.Type())

	var decoded ExportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, *payload, decoded)
}

func TestExportEnqueuer(t *testing.T) {
	t.Run("returns job with object key", func(t *testing.T) {
		client := &fakeEnqueuer{}
		enqueuer := NewExportEnqueuer(client, "reports")

		job, err := enqueuer.EnqueueExport(context.Background(), &domain.ExportRequest{
			Experiment: "arial",
			Format:     domain.ExportFormatJSON,
		})
		require.NoError(t, err)
		assert.Equal(t, "task-1", job.TaskID)
		assert.NotEqual(t, uuid.Nil, job.JobID)
		assert.Equal(t, "reports/"+job.JobID.String()+".json", job.ObjectKey)

		require.NotNil(t, client.task)
		assert.Equal(t, TypeAnalysisExport, client.task.Type())
		assert.Contains(t, client.opts, asynq.Queue("reports"))
	})

	t.Run("propagates enqueue errors", func(t *testing.T) {
		enqueuer := NewExportEnqueuer(&fakeEnqueuer{err: errors.New("redis down")}, "default")

		_, err := enqueuer.EnqueueExport(context.Background(), &domain.ExportRequest{Format: domain.ExportFormatCSV})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestExportWorker_ProcessTask(t *testing.T) {
	ctx := context.Background()

	t.Run("experiment export as csv", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		store := newMemoryStore()
		analysis.On("GroupExperiment", ctx, "arial", []string{"x"}).Return(groupResponse(), nil)

		jobID := uuid.New()
		w := NewExportWorker(zap.NewNop(), analysis, store, "reports")
		err := w.ProcessTask(ctx, exportTask(t, &ExportPayload{
			JobID:      jobID,
			Experiment: "arial",
			Format:     domain.ExportFormatCSV,
			Exclude:    []string{"x"},
		}))
		require.NoError(t, err)

		key := "reports/reports/" + jobID.String() + ".csv"
		require.Contains(t, store.objects, key)
		assert.Equal(t, "text/csv", store.contentTypes[key])

		rows, err := csv.NewReader(strings.NewReader(store.objects[key])).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, []string{"1", "2", "c1", "s1", "Chrome 120", "ANGLE", ""}, rows[1])
		analysis.AssertExpectations(t)
	})

	t.Run("sample export as json", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		store := newMemoryStore()
		resp := groupResponse()
		resp.Experiment = ""
		analysis.On("GroupSamples", ctx, []string(nil)).Return(resp, nil)

		jobID := uuid.New()
		w := NewExportWorker(zap.NewNop(), analysis, store, "reports")
		require.NoError(t, w.ProcessTask(ctx, exportTask(t, &ExportPayload{JobID: jobID, Format: domain.ExportFormatJSON})))

		key := "reports/reports/" + jobID.String() + ".json"
		assert.Equal(t, "application/json", store.contentTypes[key])
		assert.Contains(t, store.objects[key], `"title": "samples"`)
	})

	t.Run("client errors skip retry", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		analysis.On("GroupExperiment", ctx, "missing", mock.Anything).Return(nil, apperrors.NotFound("experiment"))

		w := NewExportWorker(zap.NewNop(), analysis, newMemoryStore(), "reports")
		err := w.ProcessTask(ctx, exportTask(t, &ExportPayload{JobID: uuid.New(), Experiment: "missing", Format: domain.ExportFormatJSON}))
		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		analysis.On("GroupExperiment", ctx, "arial", mock.Anything).Return(nil, errors.New("connection reset"))

		w := NewExportWorker(zap.NewNop(), analysis, newMemoryStore(), "reports")
		err := w.ProcessTask(ctx, exportTask(t, &ExportPayload{JobID: uuid.New(), Experiment: "arial", Format: domain.ExportFormatJSON}))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("upload failure is retried", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		analysis.On("GroupExperiment", ctx, "arial", mock.Anything).Return(groupResponse(), nil)
		store := newMemoryStore()
		store.err = errors.New("bucket missing")

		w := NewExportWorker(zap.NewNop(), analysis, store, "reports")
		err := w.ProcessTask(ctx, exportTask(t, &ExportPayload{JobID: uuid.New(), Experiment: "arial", Format: domain.ExportFormatJSON}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload to MinIO")
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("repeated upload failures open the breaker", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		analysis.On("GroupExperiment", ctx, "arial", mock.Anything).Return(groupResponse(), nil)
		store := newMemoryStore()
		store.err = errors.New("connection refused")

		w := NewExportWorker(zap.NewNop(), analysis, store, "reports")
		task := exportTask(t, &ExportPayload{JobID: uuid.New(), Experiment: "arial", Format: domain.ExportFormatJSON})
		for i := 0; i < 3; i++ {
			require.Error(t, w.ProcessTask(ctx, task))
		}

		store.err = nil
		err := w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, store.objects)
	})

	t.Run("malformed payload", func(t *testing.T) {
		w := NewExportWorker(zap.NewNop(), new(MockAnalyzer), newMemoryStore(), "reports")
		err := w.ProcessTask(ctx, asynq.NewTask(TypeAnalysisExport, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("unknown format", func(t *testing.T) {
		analysis := new(MockAnalyzer)
		analysis.On("GroupExperiment", ctx, "arial", mock.Anything).Return(groupResponse(), nil)

		w := NewExportWorker(zap.NewNop(), analysis, newMemoryStore(), "reports")
		err := w.ProcessTask(ctx, exportTask(t, &ExportPayload{JobID: uuid.New(), Experiment: "arial", Format: "xml"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestNewMux(t *testing.T) {
	mux := NewMux(zap.NewNop(), &WorkerDependencies{
		Analysis:    new(MockAnalyzer),
		Store:       newMemoryStore(),
		MinioBucket: "reports",
	})

	_, pattern := mux.Handler(asynq.NewTask(TypeAnalysisExport, nil))
	assert.Equal(t, TypeAnalysisExport, pattern)
}
