package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/domain"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// ResultHandler handles canvas uploads and lookups
type ResultHandler struct {
	logger            *zap.Logger
	submissionService SubmissionService
}

// NewResultHandler creates a new result handler
func NewResultHandler(
	logger *zap.Logger,
	submissionService SubmissionService,
) *ResultHandler {
	return &ResultHandler{
		logger:            logger,
		submissionService: submissionService,
	}
}

// ListResults returns the canvases of an experiment without their images
// @Summary List results
// @Tags results
// @Produce json
// @Param name path string true "Experiment name"
// @Success 200 {array} domain.CanvasSummary
// @Router /api/experiments/{name}/results [get]
func (h *ResultHandler) ListResults(c *fiber.Ctx) error {
	results, err := h.submissionService.ListResults(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// SubmitResult stores the canvas the calling browser rendered. The sample
// is keyed by the request's User-Agent and the submitted title.
// @Summary Submit result
// @Tags results
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name path string true "Experiment name"
// @Param result body domain.CanvasSubmission true "Canvas"
// @Success 201 {object} domain.Canvas
// @Failure 400 {object} middleware.ErrorBody
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/results [post]
func (h *ResultHandler) SubmitResult(c *fiber.Ctx) error {
	var input domain.CanvasSubmission
	if err := parseBody(c, &input); err != nil {
		return err
	}

	name := c.Params("name")
	canvas, err := h.submissionService.SubmitResult(c.UserContext(), name, c.Get(fiber.HeaderUserAgent), &input)
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/api/experiments/%s/results/%s", name, canvas.ID))
	return c.Status(fiber.StatusCreated).JSON(canvas)
}

// GetResult returns one canvas with its sample
// @Summary Get result
// @Tags results
// @Produce json
// @Param name path string true "Experiment name"
// @Param id path string true "Canvas ID"
// @Success 200 {object} domain.CanvasWithSample
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/results/{id} [get]
func (h *ResultHandler) GetResult(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.submissionService.GetResult(c.UserContext(), c.Params("name"), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DeleteResult removes a canvas
// @Summary Delete result
// @Tags results
// @Param name path string true "Experiment name"
// @Param id path string true "Canvas ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/results/{id} [delete]
func (h *ResultHandler) DeleteResult(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.submissionService.DeleteResult(c.UserContext(), c.Params("name"), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetResultPixels returns the raw getImageData payload of a canvas
// @Summary Get result pixels
// @Tags results
// @Produce json
// @Param name path string true "Experiment name"
// @Param id path string true "Canvas ID"
// @Success 200 {string} string
// @Failure 404 {object} middleware.ErrorBody
// @Router /api/experiments/{name}/results/{id}/pixels [get]
func (h *ResultHandler) GetResultPixels(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	pixels, err := h.submissionService.ResultPixels(c.UserContext(), c.Params("name"), id)
	if err != nil {
		return err
	}
	if pixels == "" {
		return apperrors.NotFound("pixel data")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(pixels)
}
