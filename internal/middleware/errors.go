package middleware

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// ErrorBody is the JSON envelope of every error response
type ErrorBody struct {
	Error     *apperrors.AppError `json:"error"`
	RequestID string              `json:"requestId,omitempty"`
}

func writeError(c *fiber.Ctx, err *apperrors.AppError) error {
	return c.Status(err.StatusCode).JSON(ErrorBody{Error: err, RequestID: GetRequestID(c)})
}

// ErrorHandler renders errors returned by handlers. AppErrors keep their
// status and code, *fiber.Error becomes a generic error with its status, and
// anything else is a 500 that is also reported to Sentry when enabled.
func ErrorHandler(sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			if appErr.StatusCode >= fiber.StatusInternalServerError && sentryEnabled {
				CaptureError(c, err)
			}
			return writeError(c, appErr)
		}

		if fe, ok := err.(*fiber.Error); ok {
			code := apperrors.CodeBadRequest
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = apperrors.CodeNotFound
			case fe.Code == fiber.StatusTooManyRequests:
				code = apperrors.CodeRateLimited
			case fe.Code >= fiber.StatusInternalServerError:
				code = apperrors.CodeInternal
			}
			return writeError(c, apperrors.New(code, fe.Message, fe.Code))
		}

		if sentryEnabled {
			CaptureError(c, err)
		}
		return writeError(c, apperrors.Internal("internal server error"))
	}
}
