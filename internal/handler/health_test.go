package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func setupHealthApp(checks map[string]Pinger) *fiber.App {
	h := NewHealthHandler(checks, "1.2.3")
	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/livez", h.Liveness)
	app.Get("/readyz", h.Readiness)
	app.Get("/version", h.Version)
	return app
}

func TestNewHealthHandler(t *testing.T) {
	before := time.Now()
	handler := NewHealthHandler(nil, "1.2.3")

	require.NotNil(t, handler)
	assert.Equal(t, "1.2.3", handler.version)
	assert.False(t, handler.startTime.Before(before))
}

func TestHealthHandler_Health(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		app := setupHealthApp(map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{}})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var status HealthStatus
		decodeJSON(t, resp, &status)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.Equal(t, map[string]string{"postgres": "healthy", "redis": "healthy"}, status.Checks)
	})

	t.Run("one dependency down", func(t *testing.T) {
		app := setupHealthApp(map[string]Pinger{
			"postgres": fakePinger{},
			"redis":    fakePinger{err: errors.New("connection refused")},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var status HealthStatus
		decodeJSON(t, resp, &status)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "unhealthy: connection refused", status.Checks["redis"])
	})
}

func TestHealthHandler_Readiness(t *testing.T) {
	app := setupHealthApp(map[string]Pinger{"postgres": fakePinger{err: errors.New("down")}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "postgres unavailable", body["reason"])
}

func TestHealthHandler_LivenessAndVersion(t *testing.T) {
	app := setupHealthApp(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotEmpty(t, body["uptime"])
}
