package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/handler"
	"github.com/canvasprint/canvasprint/internal/middleware"
	pgrepo "github.com/canvasprint/canvasprint/internal/repository/postgres"
	"github.com/canvasprint/canvasprint/internal/service"
	"github.com/canvasprint/canvasprint/internal/worker"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	*Databases

	// Services
	ExperimentService *service.ExperimentService
	SubmissionService *service.SubmissionService
	AnalysisService   *service.AnalysisService

	// Handlers
	Health   *handler.HealthHandler
	Handlers *handler.Handlers

	// Middleware
	AdminAuth           *middleware.AdminAuth
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// initDependencies initializes all dependencies
func initDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	ctx := context.Background()

	dbs, err := initDatabases(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Databases: dbs,
	}

	// Repositories
	experimentRepo := pgrepo.NewExperimentRepository(dbs.Postgres)
	sampleRepo := pgrepo.NewSampleRepository(dbs.Postgres)
	canvasRepo := pgrepo.NewCanvasRepository(dbs.Postgres)

	// Services
	deps.ExperimentService = service.NewExperimentService(experimentRepo, logger)
	deps.SubmissionService = service.NewSubmissionService(experimentRepo, sampleRepo, canvasRepo, logger)
	deps.AnalysisService, err = service.NewAnalysisService(experimentRepo, sampleRepo, canvasRepo, cfg.Analysis, logger)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to initialize analysis: %w", err)
	}

	// Middleware
	deps.AdminAuth = middleware.NewAdminAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	rateCfg := middleware.DefaultRateLimitConfig()
	rateCfg.Max = cfg.RateLimit.Max
	rateCfg.Window = cfg.RateLimit.Window
	deps.RateLimitMiddleware = middleware.NewRateLimitMiddleware(dbs.Redis, logger, rateCfg)

	// Handlers
	deps.Health = handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": dbs.Postgres,
		"redis":    dbs.Redis,
	}, appVersion)
	deps.Handlers = &handler.Handlers{
		Experiments: handler.NewExperimentHandler(logger, deps.ExperimentService),
		Results:     handler.NewResultHandler(logger, deps.SubmissionService),
		Analysis:    handler.NewAnalysisHandler(logger, deps.AnalysisService),
		Turk:        handler.NewTurkHandler(logger, deps.ExperimentService, deps.SubmissionService),
		Exports:     handler.NewExportHandler(logger, worker.NewExportEnqueuer(dbs.AsynqClient, cfg.Worker.Queue)),
	}

	return deps, nil
}

// Close releases every connection
func (d *Dependencies) Close() {
	d.Databases.Close()
}
