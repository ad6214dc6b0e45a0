package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
)

// MockResolver is a mock implementation of the resolution facade
type MockResolver struct {
	mock.Mock
}

// ResolveByID mocks the ResolveByID method
func (m *MockResolver) ResolveByID(ctx context.Context, id string) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// Search mocks the Search method
func (m *MockResolver) Search(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error) {
	args := m.Called(ctx, query, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// Generate mocks the Generate method
func (m *MockResolver) Generate(ctx context.Context, prompt string) (*models.Recipe, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}
