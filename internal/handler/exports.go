package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/middleware"
)

// ExportHandler queues analysis report exports
type ExportHandler struct {
	logger   *zap.Logger
	enqueuer ExportEnqueuer
}

// NewExportHandler creates a new export handler
func NewExportHandler(logger *zap.Logger, enqueuer ExportEnqueuer) *ExportHandler {
	return &ExportHandler{
		logger:   logger,
		enqueuer: enqueuer,
	}
}

// CreateExport queues a report of an experiment grouping, or of the sample
// grouping when no experiment is given
// @Summary Export analysis report
// @Tags exports
// @Accept json
// @Produce json
// @Param export body domain.ExportRequest true "Export"
// @Success 202 {object} domain.ExportJob
// @Failure 400 {object} middleware.ErrorBody
// @Failure 401 {object} middleware.ErrorBody
// @Router /api/exports [post]
func (h *ExportHandler) CreateExport(c *fiber.Ctx) error {
	var req domain.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	job, err := h.enqueuer.EnqueueExport(c.UserContext(), &req)
	if err != nil {
		return err
	}

	subject, _ := middleware.GetAdminSubject(c)
	h.logger.Info("Queued analysis export",
		zap.String("job_id", job.JobID.String()),
		zap.String("task_id", job.TaskID),
		zap.String("experiment", req.Experiment),
		zap.String("requested_by", subject),
	)

	return c.Status(fiber.StatusAccepted).JSON(job)
}
