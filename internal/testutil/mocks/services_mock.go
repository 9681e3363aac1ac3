package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chesspulse/internal/models"
)

// MockIngestService is a mock implementation of services.IngestService
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, username string) (*models.IngestResult, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IngestResult), args.Error(1)
}

// MockStatsService is a mock implementation of services.StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Aggregate(ctx context.Context, filter models.StatsFilter) (*models.AggregationResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AggregationResult), args.Error(1)
}

func (m *MockStatsService) Summary(ctx context.Context, filter models.StatsFilter) (*models.Summary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *MockStatsService) Dashboard(ctx context.Context, player string) (*models.Dashboard, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

func (m *MockStatsService) Players(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
