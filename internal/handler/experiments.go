package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// ExperimentHandler handles experiment-related HTTP requests
type ExperimentHandler struct {
	logger            *zap.Logger
	experimentService ExperimentService
}

// NewExperimentHandler creates a new experiment handler
func NewExperimentHandler(
	logger *zap.Logger,
	experimentService ExperimentService,
) *ExperimentHandler {
	return &ExperimentHandler{
		logger:            logger,
		experimentService: experimentService,
	}
}

// ListExperiments returns every experiment ordered by name
// @Summary List experiments
// @Tags experiments
// @Produce json
// @Success 200 {array} domain.Experiment
// @Router /api/experiments [get]
func (h *ExperimentHandler) ListExperiments(c *fiber.Ctx) error {
	experiments, err := h.experimentService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(experiments)
}

// GetExperiment returns an experiment with the scripts a browser loads to
// run it
// @Summary Get experiment
// @Tags experiments
// @Produce json
// @Param name path string true "Experiment name"
// @Success 200 {object} domain.Experiment
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name} [get]
func (h *ExperimentHandler) GetExperiment(c *fiber.Ctx) error {
	experiment, err := h.experimentService.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(experiment)
}

// CreateExperiment registers a new experiment
// @Summary Create experiment
// @Tags experiments
// @Accept json
// @Produce json
// @Param experiment body domain.ExperimentInput true "Experiment"
// @Success 201 {object} domain.Experiment
// @Failure 400 {object} middleware.ErrorBody
// @Failure 409 {object} middleware.ErrorBody
// @Router /api/experiments [post]
func (h *ExperimentHandler) CreateExperiment(c *fiber.Ctx) error {
	var input domain.ExperimentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	experiment, err := h.experimentService.Create(c.UserContext(), &input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(experiment)
}
