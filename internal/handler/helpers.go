package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
	"github.com/canvasprint/canvasprint/internal/validator"
)

// parseUUIDParam parses a UUID route parameter
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid "+name).WithDetail("param", name)
	}
	return id, nil
}

// parseExcludeQuery splits ?exclude=a,b into trimmed non-empty keys
func parseExcludeQuery(c *fiber.Ctx) []string {
	raw := c.Query("exclude")
	if raw == "" {
		return nil
	}

	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// parseBody decodes the request body (JSON or form) and validates it
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("invalid request body").WithError(err)
	}
	return validate(out)
}

// validate converts validator failures into a validation AppError with one
// detail per field
func validate(v any) error {
	err := validator.Validate(v)
	if err == nil {
		return nil
	}

	appErr := apperrors.Validation("request validation failed").WithError(err)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			appErr.WithDetail(fe.Field, fe.Message)
		}
	}
	return appErr
}

// formFields flattens a urlencoded or multipart form to its first values
func formFields(c *fiber.Ctx) map[string]string {
	fields := make(map[string]string)
	if form, err := c.MultipartForm(); err == nil {
		for k, v := range form.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		return fields
	}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		fields[string(k)] = string(v)
	})
	return fields
}
