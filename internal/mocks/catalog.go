package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
)

// MockCatalog is a mock implementation of the catalog source
type MockCatalog struct {
	mock.Mock
}

// SearchByText mocks the SearchByText method
func (m *MockCatalog) SearchByText(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error) {
	args := m.Called(ctx, query, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// FetchByID mocks the FetchByID method
func (m *MockCatalog) FetchByID(ctx context.Context, externalID string) (*models.Recipe, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}
