// Package testutil provides shared test fixtures for canvasprint.
package testutil

import (
	"github.com/gofiber/fiber/v2"

	"github.com/canvasprint/canvasprint/internal/middleware"
)

// TestAdminMiddleware marks every request as coming from an admin.
func TestAdminMiddleware(subject string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.SetAdminSubject(c, subject)
		return c.Next()
	}
}

// NewTestApp returns a fiber app that renders errors like the server does.
func NewTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(false),
	})
}
