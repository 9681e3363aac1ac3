package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chesspulse/internal/models"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Exists(ctx context.Context, service, player, route string, createdAt int64) (bool, error) {
	args := m.Called(ctx, service, player, route, createdAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Append(ctx context.Context, e models.GameEvent) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Count(ctx context.Context, filter models.EventFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) Query(ctx context.Context, filter models.EventFilter) ([]models.GameEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameEvent), args.Error(1)
}

func (m *MockEventRepository) Players(ctx context.Context, service string) ([]string, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
