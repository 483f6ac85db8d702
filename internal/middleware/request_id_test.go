package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Run("generates request ID when not present", func(t *testing.T) {
		app := fiber.New()

		var local string
		app.Use(RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			local = GetRequestID(c)
			return c.SendStatus(200)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		requestID := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, requestID)
		assert.Equal(t, requestID, local)
	})

	t.Run("preserves existing request ID from header", func(t *testing.T) {
		app := fiber.New()
		app.Use(RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-request-id-12345")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "existing-request-id-12345", resp.Header.Get(RequestIDHeader))
	})

	t.Run("uses custom header and generator", func(t *testing.T) {
		app := fiber.New()
		app.Use(RequestID(RequestIDConfig{
			Header:    "X-Correlation-ID",
			Generator: func() string { return "fixed" },
		}))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, "fixed", resp.Header.Get("X-Correlation-ID"))
	})
}

func TestGetRequestID_Missing(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/test", func(c *fiber.Ctx) error {
		got = GetRequestID(c)
		return c.SendStatus(200)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}
