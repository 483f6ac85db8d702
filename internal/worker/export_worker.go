package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/circuitbreaker"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
	"github.com/canvasprint/canvasprint/internal/report"
)

// Analyzer runs the groupings an export can ask for
type Analyzer interface {
	GroupExperiment(ctx context.Context, name string, extraExcluded []string) (*domain.GroupResponse, error)
	GroupSamples(ctx context.Context, extraExcluded []string) (*domain.GroupResponse, error)
}

// ObjectStore is the subset of *minio.Client used for uploads
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ExportWorker renders analysis reports and uploads them to object storage
type ExportWorker struct {
	logger   *zap.Logger
	analysis Analyzer
	store    ObjectStore
	bucket   string
	breaker  *circuitbreaker.Breaker
}

// NewExportWorker creates a new export worker
func NewExportWorker(
	logger *zap.Logger,
	analysis Analyzer,
	store ObjectStore,
	bucket string,
) *ExportWorker {
	return &ExportWorker{
		logger:   logger,
		analysis: analysis,
		store:    store,
		bucket:   bucket,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:        "minio",
			MaxFailures: 3,
			Cooldown:    time.Minute,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		}),
	}
}

// ProcessTask processes an analysis export task. Client errors such as an
// unknown experiment are not retried.
func (w *ExportWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export payload: %v: %w", err, asynq.SkipRetry)
	}

	log := w.logger.With(
		zap.String("job_id", payload.JobID.String()),
		zap.String("experiment", payload.Experiment),
		zap.String("format", string(payload.Format)),
	)
	log.Info("processing analysis export")

	var (
		resp *domain.GroupResponse
		err  error
	)
	if payload.Experiment == "" {
		resp, err = w.analysis.GroupSamples(ctx, payload.Exclude)
	} else {
		resp, err = w.analysis.GroupExperiment(ctx, payload.Experiment, payload.Exclude)
	}
	if err != nil {
		if apperrors.GetStatusCode(err) < 500 {
			return fmt.Errorf("analysis rejected: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to run analysis: %w", err)
	}

	data, contentType, err := render(report.FromResponse(resp), payload.Format)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	key := domain.ExportObjectKey(payload.JobID, payload.Format)
	if err := w.upload(ctx, key, data, contentType); err != nil {
		return err
	}

	log.Info("analysis export completed",
		zap.String("object", key),
		zap.Int("groups", len(resp.Classes)),
		zap.Int("size", len(data)),
	)
	return nil
}

func render(rep *report.Report, format domain.ExportFormat) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case domain.ExportFormatJSON:
		if err := report.WriteJSON(&buf, rep); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/json", nil
	case domain.ExportFormatCSV:
		if err := report.WriteCSV(&buf, rep); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (w *ExportWorker) upload(ctx context.Context, key string, data []byte, contentType string) error {
	err := w.breaker.Execute(ctx, func() error {
		_, err := w.store.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return nil
}
