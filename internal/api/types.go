package api

import (
	"context"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
)

// IResolver is the resolution facade the HTTP layer talks to.
type IResolver interface {
	ResolveByID(ctx context.Context, id string) (*models.Recipe, error)
	Search(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error)
	Generate(ctx context.Context, prompt string) (*models.Recipe, error)
}

// GenerateRequest is the body of POST /recipes/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SearchResponse wraps a search result set.
type SearchResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int             `json:"total"`
}
