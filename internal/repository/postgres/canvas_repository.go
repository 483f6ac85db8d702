package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// CanvasRepository handles canvas data operations in PostgreSQL
type CanvasRepository struct {
	db *database.PostgresDB
}

// NewCanvasRepository creates a new canvas repository
func NewCanvasRepository(db *database.PostgresDB) *CanvasRepository {
	return &CanvasRepository{db: db}
}

const joinedColumns = `c.id, c.sample_id, c.experiment_id, c.pixels, c.png, c.created_at, c.updated_at,
	` + sampleColumns

// Upsert stores the canvas of a sample for an experiment, replacing the
// payloads of an existing one. On return canvas.ID and CreatedAt hold the
// stored row's values.
func (r *CanvasRepository) Upsert(ctx context.Context, canvas *domain.Canvas) error {
	query := `
		INSERT INTO canvases (id, sample_id, experiment_id, pixels, png, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sample_id, experiment_id) DO UPDATE SET
			pixels = EXCLUDED.pixels,
			png = EXCLUDED.png,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		canvas.ID,
		canvas.SampleID,
		canvas.ExperimentID,
		canvas.Pixels,
		canvas.PNG,
		canvas.CreatedAt,
		canvas.UpdatedAt,
	).Scan(&canvas.ID, &canvas.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert canvas: %w", err)
	}

	return nil
}

// Get returns a canvas of an experiment joined with its sample
func (r *CanvasRepository) Get(ctx context.Context, experimentID, id uuid.UUID) (*domain.CanvasWithSample, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM canvases c
		JOIN samples s ON s.id = c.sample_id
		WHERE c.id = $1 AND c.experiment_id = $2
	`

	canvas, err := scanJoined(r.db.Pool.QueryRow(ctx, query, id, experimentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("canvas")
		}
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}

	return canvas, nil
}

// ListByExperiment returns every canvas of an experiment with its sample,
// in submission order
func (r *CanvasRepository) ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.CanvasWithSample, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM canvases c
		JOIN samples s ON s.id = c.sample_id
		WHERE c.experiment_id = $1
		ORDER BY c.created_at, c.id
	`

	rows, err := r.db.Pool.Query(ctx, query, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list canvases: %w", err)
	}
	defer rows.Close()

	var canvases []domain.CanvasWithSample
	for rows.Next() {
		canvas, err := scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan canvas: %w", err)
		}
		canvases = append(canvases, *canvas)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canvases: %w", err)
	}

	return canvases, nil
}

// Delete removes a canvas of an experiment
func (r *CanvasRepository) Delete(ctx context.Context, experimentID, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM canvases WHERE id = $1 AND experiment_id = $2`,
		id, experimentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete canvas: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("canvas")
	}
	return nil
}

func scanJoined(row pgx.Row) (*domain.CanvasWithSample, error) {
	var c domain.CanvasWithSample
	err := row.Scan(
		&c.ID, &c.SampleID, &c.ExperimentID, &c.Pixels, &c.PNG, &c.CreatedAt, &c.UpdatedAt,
		&c.Sample.ID, &c.Sample.UserAgent, &c.Sample.UserInput, &c.Sample.WebGLVendor,
		&c.Sample.WebGLVersion, &c.Sample.WebGLRenderer, &c.Sample.AssignmentID, &c.Sample.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
