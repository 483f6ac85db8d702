package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

const uniqueViolation = "23505"

// ExperimentRepository handles experiment data operations in PostgreSQL
type ExperimentRepository struct {
	db *database.PostgresDB
}

// NewExperimentRepository creates a new experiment repository
func NewExperimentRepository(db *database.PostgresDB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

const experimentColumns = `id, name, scripts, mt, created_at`

// Create inserts an experiment
func (r *ExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment) error {
	query := `
		INSERT INTO experiments (id, name, scripts, mt, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	scripts := experiment.Scripts
	if scripts == nil {
		scripts = []string{}
	}

	_, err := r.db.Pool.Exec(ctx, query,
		experiment.ID,
		experiment.Name,
		scripts,
		experiment.MT,
		experiment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("experiment with this name already exists")
		}
		return fmt.Errorf("failed to create experiment: %w", err)
	}

	return nil
}

// GetByName retrieves an experiment by its unique name
func (r *ExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE name = $1`

	experiment, err := scanExperiment(r.db.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("experiment")
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return experiment, nil
}

// GetByID retrieves an experiment by ID
func (r *ExperimentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE id = $1`

	experiment, err := scanExperiment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("experiment")
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return experiment, nil
}

// List returns every experiment ordered by name
func (r *ExperimentRepository) List(ctx context.Context) ([]domain.Experiment, error) {
	return r.list(ctx, `SELECT `+experimentColumns+` FROM experiments ORDER BY name`)
}

// ListMT returns the experiments run inside Mechanical Turk HITs, ordered
// by creation so script order is stable
func (r *ExperimentRepository) ListMT(ctx context.Context) ([]domain.Experiment, error) {
	return r.list(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE mt ORDER BY created_at, name`)
}

func (r *ExperimentRepository) list(ctx context.Context, query string) ([]domain.Experiment, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []domain.Experiment
	for rows.Next() {
		experiment, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		experiments = append(experiments, *experiment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experiments: %w", err)
	}

	return experiments, nil
}

func scanExperiment(row pgx.Row) (*domain.Experiment, error) {
	var e domain.Experiment
	if err := row.Scan(&e.ID, &e.Name, &e.Scripts, &e.MT, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
