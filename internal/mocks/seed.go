package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/forkful/backend/internal/seed"
)

// MockSeedSource is a mock implementation of the seed source
type MockSeedSource struct {
	mock.Mock
}

// Random mocks the Random method
func (m *MockSeedSource) Random(ctx context.Context) (*seed.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seed.Record), args.Error(1)
}

// SearchByName mocks the SearchByName method
func (m *MockSeedSource) SearchByName(ctx context.Context, query string) ([]seed.Record, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seed.Record), args.Error(1)
}

// LookupByID mocks the LookupByID method
func (m *MockSeedSource) LookupByID(ctx context.Context, id string) (*seed.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seed.Record), args.Error(1)
}
