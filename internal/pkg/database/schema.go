package database

import (
	"context"
	"fmt"

	"github.com/canvasprint/canvasprint/internal/pkg/logger"
)

// schema is applied in order on startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS experiments (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		scripts    TEXT[] NOT NULL DEFAULT '{}',
		mt         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS samples (
		id             UUID PRIMARY KEY,
		useragent      TEXT NOT NULL,
		userinput      TEXT NOT NULL DEFAULT '',
		webgl_vendor   TEXT NOT NULL DEFAULT '',
		webgl_version  TEXT NOT NULL DEFAULT '',
		webgl_renderer TEXT NOT NULL DEFAULT '',
		assignment_id  TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_samples_useragent_userinput ON samples (useragent, userinput)`,
	`CREATE TABLE IF NOT EXISTS canvases (
		id            UUID PRIMARY KEY,
		sample_id     UUID NOT NULL REFERENCES samples(id) ON DELETE CASCADE,
		experiment_id UUID NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
		pixels        TEXT NOT NULL DEFAULT '',
		png           TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (sample_id, experiment_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_canvases_experiment ON canvases (experiment_id)`,
}

// Migrate creates the tables used by the repositories if they are missing
func Migrate(ctx context.Context, db *PostgresDB) error {
	for i, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	logger.Log.Info("database schema is up to date")
	return nil
}
