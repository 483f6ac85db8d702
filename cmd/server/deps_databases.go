package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
	"github.com/canvasprint/canvasprint/internal/worker"
)

// Databases holds all database connections
type Databases struct {
	Postgres    *database.PostgresDB
	Redis       *database.RedisDB
	AsynqClient *asynq.Client
}

// initDatabases opens every connection and applies the schema
func initDatabases(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Databases, error) {
	dbs := &Databases{}

	pgDB, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	dbs.Postgres = pgDB

	if err := database.Migrate(ctx, pgDB); err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to migrate PostgreSQL: %w", err)
	}
	logger.Info("database schema up to date")

	redisDB, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	dbs.Redis = redisDB

	dbs.AsynqClient = asynq.NewClient(worker.RedisOpt(cfg.Redis))

	return dbs, nil
}

// Close closes all database connections
func (d *Databases) Close() {
	if d.Postgres != nil {
		d.Postgres.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.AsynqClient != nil {
		_ = d.AsynqClient.Close()
	}
}
