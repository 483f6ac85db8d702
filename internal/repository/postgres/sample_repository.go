package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/pkg/database"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// SampleRepository handles sample data operations in PostgreSQL
type SampleRepository struct {
	db *database.PostgresDB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *database.PostgresDB) *SampleRepository {
	return &SampleRepository{db: db}
}

const sampleColumns = `s.id, s.useragent, s.userinput, s.webgl_vendor, s.webgl_version,
	s.webgl_renderer, s.assignment_id, s.created_at`

const insertSample = `
	INSERT INTO samples (
		id, useragent, userinput, webgl_vendor, webgl_version,
		webgl_renderer, assignment_id, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func sampleArgs(s *domain.Sample) []any {
	return []any{
		s.ID, s.UserAgent, s.UserInput, s.WebGLVendor, s.WebGLVersion,
		s.WebGLRenderer, s.AssignmentID, s.CreatedAt,
	}
}

// Create inserts a sample
func (r *SampleRepository) Create(ctx context.Context, sample *domain.Sample) error {
	if _, err := r.db.Pool.Exec(ctx, insertSample, sampleArgs(sample)...); err != nil {
		return fmt.Errorf("failed to create sample: %w", err)
	}
	return nil
}

// FindByAgent returns the oldest sample with the given user agent and input
func (r *SampleRepository) FindByAgent(ctx context.Context, useragent, userinput string) (*domain.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples s
		WHERE s.useragent = $1 AND s.userinput = $2
		ORDER BY s.created_at, s.id
		LIMIT 1`

	sample, err := scanSample(r.db.Pool.QueryRow(ctx, query, useragent, userinput))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("sample")
		}
		return nil, fmt.Errorf("failed to find sample: %w", err)
	}
	return sample, nil
}

// CreateWithCanvases stores a sample and its canvases atomically
func (r *SampleRepository) CreateWithCanvases(ctx context.Context, sample *domain.Sample, canvases []domain.Canvas) error {
	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertSample, sampleArgs(sample)...); err != nil {
			return fmt.Errorf("failed to create sample: %w", err)
		}

		batch := &pgx.Batch{}
		for i := range canvases {
			c := &canvases[i]
			batch.Queue(`
				INSERT INTO canvases (id, sample_id, experiment_id, pixels, png, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, c.ID, c.SampleID, c.ExperimentID, c.Pixels, c.PNG, c.CreatedAt, c.UpdatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for range canvases {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to create canvas: %w", err)
			}
		}
		return results.Close()
	})
}

// ListWithCanvases returns every sample that submitted at least one canvas,
// with its canvases ordered by experiment ID.
func (r *SampleRepository) ListWithCanvases(ctx context.Context) ([]domain.SampleCanvases, error) {
	query := `
		SELECT ` + sampleColumns + `,
			c.id, c.experiment_id, c.pixels, c.png, c.created_at, c.updated_at
		FROM samples s
		JOIN canvases c ON c.sample_id = s.id
		ORDER BY s.created_at, s.id, c.experiment_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	var out []domain.SampleCanvases
	for rows.Next() {
		var s domain.Sample
		var c domain.Canvas
		err := rows.Scan(
			&s.ID, &s.UserAgent, &s.UserInput, &s.WebGLVendor, &s.WebGLVersion,
			&s.WebGLRenderer, &s.AssignmentID, &s.CreatedAt,
			&c.ID, &c.ExperimentID, &c.Pixels, &c.PNG, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		c.SampleID = s.ID

		if n := len(out); n > 0 && out[n-1].Sample.ID == s.ID {
			out[n-1].Canvases = append(out[n-1].Canvases, c)
			continue
		}
		out = append(out, domain.SampleCanvases{Sample: s, Canvases: []domain.Canvas{c}})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}

	return out, nil
}

func scanSample(row pgx.Row) (*domain.Sample, error) {
	var s domain.Sample
	err := row.Scan(
		&s.ID, &s.UserAgent, &s.UserInput, &s.WebGLVendor, &s.WebGLVersion,
		&s.WebGLRenderer, &s.AssignmentID, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
