package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// TypeAnalysisExport is the task type for analysis report exports
const TypeAnalysisExport = "analysis:export"

// ExportPayload is the payload for analysis export tasks
type ExportPayload struct {
	JobID uuid.UUID `json:"job_id"`
	// Experiment is empty for the cross-experiment sample analysis
	Experiment string              `json:"experiment"`
	Format     domain.ExportFormat `json:"format"`
	Exclude    []string            `json:"exclude"`
}

// NewExportTask creates an analysis export task
func NewExportTask(payload *ExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}
	return asynq.NewTask(TypeAnalysisExport, data, asynq.MaxRetry(3), asynq.Timeout(10*time.Minute)), nil
}

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExportEnqueuer queues analysis exports for the worker
type ExportEnqueuer struct {
	client TaskEnqueuer
	queue  string
}

// NewExportEnqueuer creates an enqueuer publishing to queue
func NewExportEnqueuer(client TaskEnqueuer, queue string) *ExportEnqueuer {
	return &ExportEnqueuer{
		client: client,
		queue:  queue,
	}
}

// EnqueueExport assigns a job ID and queues the export
func (e *ExportEnqueuer) EnqueueExport(ctx context.Context, req *domain.ExportRequest) (*domain.ExportJob, error) {
	payload := &ExportPayload{
		JobID:      uuid.New(),
		Experiment: req.Experiment,
		Format:     req.Format,
		Exclude:    req.Exclude,
	}

	task, err := NewExportTask(payload)
	if err != nil {
		return nil, err
	}

	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue))
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue export: %w", err)
	}

	return &domain.ExportJob{
		JobID:     payload.JobID,
		TaskID:    info.ID,
		Format:    payload.Format,
		ObjectKey: domain.ExportObjectKey(payload.JobID, payload.Format),
	}, nil
}
