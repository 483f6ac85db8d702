package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// TurkHandler serves the Mechanical Turk HIT page data and takes its posts
type TurkHandler struct {
	logger            *zap.Logger
	experimentService ExperimentService
	submissionService SubmissionService
}

// NewTurkHandler creates a new Mechanical Turk handler
func NewTurkHandler(
	logger *zap.Logger,
	experimentService ExperimentService,
	submissionService SubmissionService,
) *TurkHandler {
	return &TurkHandler{
		logger:            logger,
		experimentService: experimentService,
		submissionService: submissionService,
	}
}

// GetPage returns the experiments a worker runs and the scripts to load
// @Summary Mechanical Turk page
// @Tags mturk
// @Produce json
// @Success 200 {object} domain.TurkPage
// @Router /api/mt [get]
func (h *TurkHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.experimentService.TurkPage(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Submit stores a worker's batch. Form posts carry one "exp-<name>" field
// per experiment; JSON posts use the canvases object.
// @Summary Submit Mechanical Turk batch
// @Tags mturk
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param batch body domain.TurkSubmission true "Batch"
// @Success 201 {object} domain.Sample
// @Failure 400 {object} middleware.ErrorBody
// @Router /api/mt [post]
func (h *TurkHandler) Submit(c *fiber.Ctx) error {
	var input domain.TurkSubmission
	if err := c.BodyParser(&input); err != nil {
		return apperrors.BadRequest("invalid request body").WithError(err)
	}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		input.Canvases = domain.TurkCanvases(formFields(c))
	}
	if err := validate(&input); err != nil {
		return err
	}

	sample, err := h.submissionService.SubmitTurk(c.UserContext(), &input)
	if err != nil {
		return err
	}

	h.logger.Info("Stored turk batch",
		zap.String("sample_id", sample.ID.String()),
		zap.String("assignment_id", input.AssignmentID),
		zap.Int("canvases", len(input.Canvases)),
	)

	return c.Status(fiber.StatusCreated).JSON(sample)
}
