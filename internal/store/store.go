// Package store is the persistence adapter for recipes and the
// external-id mapping table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

var (
	// ErrNotFound is returned when a recipe or mapping does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps driver failures. Callers may retry; ErrNotFound
	// is terminal.
	ErrUnavailable = errors.New("recipe store unavailable")
)

// Store handles recipe persistence operations
type Store struct {
	db *gorm.DB
}

// New creates a new Store instance
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetByID retrieves a recipe by its namespaced identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &recipe, nil
}

// SearchByText finds recipes whose title or description contains the
// query, case-insensitively.
func (s *Store) SearchByText(ctx context.Context, query string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	dbQuery := s.db.WithContext(ctx)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, wrap(err)
	}
	return recipes, nil
}

// Insert persists a recipe.
func (s *Store) Insert(ctx context.Context, recipe *models.Recipe) error {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if errors.Is(err, models.ErrEmptyTitle) {
			return err
		}
		return wrap(err)
	}
	return nil
}

// Delete removes a recipe by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindMappingByExternalID returns the internal id recorded for a catalog
// external id, or ErrNotFound if that catalog entry was never imported.
func (s *Store) FindMappingByExternalID(ctx context.Context, externalID string) (string, error) {
	var mapping models.ExternalMapping
	if err := s.db.WithContext(ctx).First(&mapping, "external_id = ?", externalID).Error; err != nil {
		return "", wrap(err)
	}
	return mapping.InternalID, nil
}

// RecordMapping records that a catalog entry has been imported. The
// unique index on external_id makes repeat imports impossible.
func (s *Store) RecordMapping(ctx context.Context, internalID, externalID string) error {
	mapping := models.ExternalMapping{
		InternalID: internalID,
		ExternalID: externalID,
	}
	if err := s.db.WithContext(ctx).Create(&mapping).Error; err != nil {
		return wrap(err)
	}
	return nil
}

// ListGenerated returns all persisted generated recipes ordered oldest
// first. The ordering drives pool eviction.
func (s *Store) ListGenerated(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("provenance = ?", models.ProvenanceGenerated).
		Order("created_at ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, wrap(err)
	}
	return recipes, nil
}

// CountGenerated returns the number of persisted generated recipes.
func (s *Store) CountGenerated(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("provenance = ?", models.ProvenanceGenerated).
		Count(&count).Error
	if err != nil {
		return 0, wrap(err)
	}
	return int(count), nil
}

// Transaction runs fn against a store bound to a single serializable
// database transaction, committing on nil and rolling back on error.
// Serializable isolation is what makes the pool's read-evict-insert
// sequence safe against concurrent admissions on Postgres; under READ
// COMMITTED two admissions could both observe a non-full pool and both
// insert.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// serializationFailure is the SQLSTATE Postgres reports when a
// serializable transaction must be retried.
const serializationFailure = "40001"

// IsSerializationFailure reports whether err is a Postgres serialization
// conflict. Such transactions are safe to retry from the top.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}

func wrap(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
