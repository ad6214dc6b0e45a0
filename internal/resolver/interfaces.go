package resolver

import (
	"context"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/seed"
)

// CatalogSource is the paid external recipe catalog.
type CatalogSource interface {
	SearchByText(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error)
	FetchByID(ctx context.Context, externalID string) (*models.Recipe, error)
}

// SeedSource supplies raw records for seed-based generation.
type SeedSource interface {
	Random(ctx context.Context) (*seed.Record, error)
	SearchByName(ctx context.Context, query string) ([]seed.Record, error)
	LookupByID(ctx context.Context, id string) (*seed.Record, error)
}

// Generator turns prompts and seed records into recipe candidates.
type Generator interface {
	Freeform(ctx context.Context, prompt string) (*models.Recipe, error)
	FromSeed(ctx context.Context, record *seed.Record) models.Recipe
}
