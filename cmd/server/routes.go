package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/canvasprint/canvasprint/internal/handler"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	// Health check routes (no auth required)
	app.Get("/health", deps.Health.Health)
	app.Get("/livez", deps.Health.Liveness)
	app.Get("/readyz", deps.Health.Readiness)
	app.Get("/version", deps.Health.Version)

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	if deps.Config.RateLimit.Enabled {
		api.Use(deps.RateLimitMiddleware.Handler())
	}
	handler.RegisterAPI(api, deps.Handlers, deps.AdminAuth.RequireAdmin())
}
