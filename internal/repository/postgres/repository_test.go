package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasprint/canvasprint/internal/domain"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

func TestExperimentRepository(t *testing.T) {
	db := getTestDB(t)
	repo := NewExperimentRepository(db)
	ctx := context.Background()

	exp := newTestExperiment(t, db)

	t.Run("get by name", func(t *testing.T) {
		got, err := repo.GetByName(ctx, exp.Name)
		require.NoError(t, err)
		assert.Equal(t, exp.ID, got.ID)
		assert.Equal(t, []string{"/test.js"}, got.Scripts)
	})

	t.Run("missing name is not found", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "no-such-experiment-"+uuid.NewString())
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		dup := &domain.Experiment{ID: uuid.New(), Name: exp.Name, CreatedAt: time.Now()}
		err := repo.Create(ctx, dup)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
		}
	})
}

func TestCanvasRepository_Upsert(t *testing.T) {
	db := getTestDB(t)
	repo := NewCanvasRepository(db)
	ctx := context.Background()

	exp := newTestExperiment(t, db)
	sample := newTestSample(t, db, "Mozilla/5.0 Firefox/121.0")

	first := &domain.Canvas{
		ID: uuid.New(), SampleID: sample.ID, ExperimentID: exp.ID,
		PNG: "data:image/png;base64,AAAA", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &domain.Canvas{
		ID: uuid.New(), SampleID: sample.ID, ExperimentID: exp.ID,
		PNG: "data:image/png;base64,BBBB", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID, "a second upload replaces the first canvas")

	got, err := repo.Get(ctx, exp.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBBB", got.PNG)
	assert.Equal(t, sample.UserAgent, got.Sample.UserAgent)

	list, err := repo.ListByExperiment(ctx, exp.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, exp.ID, first.ID))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, exp.ID, first.ID)))
}

func TestSampleRepository(t *testing.T) {
	db := getTestDB(t)
	repo := NewSampleRepository(db)
	ctx := context.Background()

	exp := newTestExperiment(t, db)
	sample := newTestSample(t, db, "Mozilla/5.0 Chrome/120.0")

	t.Run("find by agent", func(t *testing.T) {
		got, err := repo.FindByAgent(ctx, sample.UserAgent, sample.UserInput)
		require.NoError(t, err)
		assert.Equal(t, sample.ID, got.ID)

		_, err = repo.FindByAgent(ctx, sample.UserAgent, "other-"+uuid.NewString())
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("create with canvases", func(t *testing.T) {
		turk := &domain.Sample{ID: uuid.New(), UserAgent: "turk", AssignmentID: "A1", CreatedAt: time.Now()}
		t.Cleanup(func() { _, _ = db.Pool.Exec(ctx, `DELETE FROM samples WHERE id = $1`, turk.ID) })

		canvases := []domain.Canvas{{
			ID: uuid.New(), SampleID: turk.ID, ExperimentID: exp.ID,
			PNG: "data:image/png;base64,AAAA", CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}}
		require.NoError(t, repo.CreateWithCanvases(ctx, turk, canvases))

		all, err := repo.ListWithCanvases(ctx)
		require.NoError(t, err)

		var found *domain.SampleCanvases
		for i := range all {
			if all[i].Sample.ID == turk.ID {
				found = &all[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "A1", found.Sample.AssignmentID)
		assert.Len(t, found.Canvases, 1)
	})

	t.Run("samples without canvases are not listed", func(t *testing.T) {
		all, err := repo.ListWithCanvases(ctx)
		require.NoError(t, err)
		for _, sc := range all {
			assert.NotEqual(t, sample.ID, sc.Sample.ID)
		}
	})

	t.Run("failed batch rolls back the sample", func(t *testing.T) {
		turk := &domain.Sample{ID: uuid.New(), UserAgent: "turk-rollback", CreatedAt: time.Now()}
		canvases := []domain.Canvas{{
			ID: uuid.New(), SampleID: turk.ID, ExperimentID: uuid.New(),
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}}
		require.Error(t, repo.CreateWithCanvases(ctx, turk, canvases))

		_, err := repo.FindByAgent(ctx, "turk-rollback", "")
		assert.True(t, apperrors.IsNotFound(err))
	})
}
