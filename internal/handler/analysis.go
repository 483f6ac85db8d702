package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalysisHandler exposes equivalence grouping and entropy
type AnalysisHandler struct {
	logger          *zap.Logger
	analysisService AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	logger *zap.Logger,
	analysisService AnalysisService,
) *AnalysisHandler {
	return &AnalysisHandler{
		logger:          logger,
		analysisService: analysisService,
	}
}

// GroupExperiment groups the canvases of an experiment by pixel equality
// @Summary Group experiment results
// @Tags analysis
// @Produce json
// @Param name path string true "Experiment name"
// @Param exclude query string false "Comma separated sample user IDs to leave out"
// @Success 200 {object} domain.GroupResponse
// @Failure 404 {object} middleware.ErrorBody
// @Failure 422 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/groups [get]
func (h *AnalysisHandler) GroupExperiment(c *fiber.Ctx) error {
	resp, err := h.analysisService.GroupExperiment(c.UserContext(), c.Params("name"), parseExcludeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Compare groups an experiment and locates one canvas in the result
// @Summary Compare a result against its experiment
// @Tags analysis
// @Produce json
// @Param name path string true "Experiment name"
// @Param id path string true "Canvas ID"
// @Success 200 {object} domain.CompareResponse
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/compare/{id} [get]
func (h *AnalysisHandler) Compare(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.analysisService.Compare(c.UserContext(), c.Params("name"), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GroupSamples groups samples by their canvases across every experiment
// @Summary Group samples
// @Tags analysis
// @Produce json
// @Param exclude query string false "Comma separated sample user IDs to leave out"
// @Success 200 {object} domain.GroupResponse
// @Router /api/groups [get]
func (h *AnalysisHandler) GroupSamples(c *fiber.Ctx) error {
	resp, err := h.analysisService.GroupSamples(c.UserContext(), parseExcludeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
