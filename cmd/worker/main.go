package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
	"github.com/canvasprint/canvasprint/internal/pkg/logger"
	pgrepo "github.com/canvasprint/canvasprint/internal/repository/postgres"
	"github.com/canvasprint/canvasprint/internal/service"
	"github.com/canvasprint/canvasprint/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	_ = logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logger.Log.With(zap.String("component", "worker"))
	defer logger.Sync()

	log.Info("starting worker service")

	// Initialize dependencies
	deps, cleanup, err := initWorkerDependencies(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer cleanup()

	// Create worker server
	workerServer, err := worker.NewServer(log, cfg, deps)
	if err != nil {
		log.Fatal("failed to create worker server", zap.Error(err))
	}

	// Start worker in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- workerServer.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down worker...")
		workerServer.Stop()
	case err := <-errCh:
		if err != nil {
			log.Error("worker server error", zap.Error(err))
		}
	}

	log.Info("worker stopped")
}

// initWorkerDependencies initializes dependencies for the worker
func initWorkerDependencies(cfg *config.Config, log *zap.Logger) (*worker.WorkerDependencies, func(), error) {
	ctx := context.Background()

	pgDB, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	minioClient, err := initMinio(ctx, cfg.MinIO)
	if err != nil {
		pgDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize MinIO: %w", err)
	}

	experimentRepo := pgrepo.NewExperimentRepository(pgDB)
	sampleRepo := pgrepo.NewSampleRepository(pgDB)
	canvasRepo := pgrepo.NewCanvasRepository(pgDB)

	analysis, err := service.NewAnalysisService(experimentRepo, sampleRepo, canvasRepo, cfg.Analysis, log)
	if err != nil {
		pgDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize analysis: %w", err)
	}

	deps := &worker.WorkerDependencies{
		Analysis:    analysis,
		Store:       minioClient,
		MinioBucket: cfg.MinIO.Bucket,
	}

	cleanup := func() {
		pgDB.Close()
	}

	return deps, cleanup, nil
}

// initMinio connects to MinIO and makes sure the report bucket exists
func initMinio(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return client, nil
}
