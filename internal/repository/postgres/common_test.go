package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
)

// getTestDB returns a migrated database for integration tests.
// Tests are skipped when POSTGRES_TEST_HOST is not set.
func getTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()

	if os.Getenv("POSTGRES_TEST_HOST") == "" {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
		return nil
	}

	cfg := config.PostgresConfig{
		Host:     os.Getenv("POSTGRES_TEST_HOST"),
		Port:     5432,
		User:     os.Getenv("POSTGRES_TEST_USER"),
		Password: os.Getenv("POSTGRES_TEST_PASS"),
		Database: os.Getenv("POSTGRES_TEST_DB"),
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}

	if cfg.Database == "" {
		cfg.Database = "test_canvasprint"
	}
	if cfg.User == "" {
		cfg.User = "postgres"
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
		return nil
	}
	require.NoError(t, database.Migrate(ctx, db))
	t.Cleanup(db.Close)

	return db
}

// newTestExperiment creates an experiment with a unique name and removes it,
// with its canvases, when the test ends
func newTestExperiment(t *testing.T, db *database.PostgresDB) *domain.Experiment {
	t.Helper()

	exp := &domain.Experiment{
		ID:        uuid.New(),
		Name:      "test-" + uuid.NewString()[:8],
		Scripts:   []string{"/test.js"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewExperimentRepository(db).Create(context.Background(), exp))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), "DELETE FROM experiments WHERE id = $1", exp.ID)
	})
	return exp
}

// newTestSample creates a sample removed when the test ends
func newTestSample(t *testing.T, db *database.PostgresDB, useragent string) *domain.Sample {
	t.Helper()

	s := &domain.Sample{
		ID:        uuid.New(),
		UserAgent: useragent,
		UserInput: "title-" + uuid.NewString()[:8],
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewSampleRepository(db).Create(context.Background(), s))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), "DELETE FROM samples WHERE id = $1", s.ID)
	})
	return s
}
