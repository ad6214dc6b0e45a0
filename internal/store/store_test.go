package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Recipe{}, &models.ExternalMapping{}))
	return New(db)
}

func TestGetByID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	recipe := &models.Recipe{Title: "Chicken Soup", Description: "Warm and simple"}
	require.NoError(t, s.Insert(ctx, recipe))
	require.NotEmpty(t, recipe.ID)

	t.Run("should return the recipe", func(t *testing.T) {
		got, err := s.GetByID(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chicken Soup", got.Title)
		assert.Equal(t, models.ProvenanceLocal, got.Provenance)
	})

	t.Run("should return ErrNotFound for unknown ids", func(t *testing.T) {
		_, err := s.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInsertRejectsEmptyTitle(t *testing.T) {
	s := setupStore(t)
	err := s.Insert(context.Background(), &models.Recipe{Description: "no title"})
	assert.ErrorIs(t, err, models.ErrEmptyTitle)
}

func TestSearchByText(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, r := range []*models.Recipe{
		{Title: "Beef Wellington", Description: "A classic"},
		{Title: "Lentil Curry", Description: "Rich beefy flavour without beef"},
		{Title: "Pancakes", Description: "Breakfast"},
	} {
		require.NoError(t, s.Insert(ctx, r))
	}

	t.Run("should match title and description case-insensitively", func(t *testing.T) {
		got, err := s.SearchByText(ctx, "BEEF")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("should return everything for empty query", func(t *testing.T) {
		got, err := s.SearchByText(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	recipe := &models.Recipe{Title: "Short-lived"}
	require.NoError(t, s.Insert(ctx, recipe))

	require.NoError(t, s.Delete(ctx, recipe.ID))
	_, err := s.GetByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, recipe.ID), ErrNotFound)
}

func TestMappings(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	t.Run("should return ErrNotFound before recording", func(t *testing.T) {
		_, err := s.FindMappingByExternalID(ctx, "715538")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should round-trip a mapping", func(t *testing.T) {
		require.NoError(t, s.RecordMapping(ctx, "catalog:715538", "715538"))
		internalID, err := s.FindMappingByExternalID(ctx, "715538")
		require.NoError(t, err)
		assert.Equal(t, "catalog:715538", internalID)
	})

	t.Run("should reject duplicate external ids", func(t *testing.T) {
		err := s.RecordMapping(ctx, "catalog:715538", "715538")
		assert.Error(t, err)
	})
}

func TestListAndCountGenerated(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, &models.Recipe{Title: "Local One"}))
	for _, r := range []*models.Recipe{
		{ID: "generated:1", Title: "Gen One", Provenance: models.ProvenanceGenerated},
		{ID: "generated:2", Title: "Gen Two", Provenance: models.ProvenanceGenerated},
	} {
		require.NoError(t, s.Insert(ctx, r))
	}

	count, err := s.CountGenerated(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pool, err := s.ListGenerated(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	for _, r := range pool {
		assert.Equal(t, models.ProvenanceGenerated, r.Provenance)
	}
}

func TestTransaction(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	t.Run("should commit when fn returns nil", func(t *testing.T) {
		err := s.Transaction(ctx, func(tx *Store) error {
			return tx.Insert(ctx, &models.Recipe{ID: "tx-commit", Title: "Committed"})
		})
		require.NoError(t, err)

		_, err = s.GetByID(ctx, "tx-commit")
		assert.NoError(t, err)
	})

	t.Run("should roll back when fn returns an error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Transaction(ctx, func(tx *Store) error {
			if err := tx.Insert(ctx, &models.Recipe{ID: "tx-rollback", Title: "Rolled Back"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.GetByID(ctx, "tx-rollback")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIsSerializationFailure(t *testing.T) {
	conflict := &pgconn.PgError{Code: "40001"}

	assert.True(t, IsSerializationFailure(conflict))
	assert.True(t, IsSerializationFailure(wrap(conflict)), "wrapped driver errors must stay recognizable")

	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
	assert.False(t, IsSerializationFailure(nil))
}
