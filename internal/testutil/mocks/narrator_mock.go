package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chesspulse/internal/models"
)

// MockNarrator is a mock implementation of narrator.Narrator
type MockNarrator struct {
	mock.Mock
}

func (m *MockNarrator) Summarize(ctx context.Context, res models.AggregationResult) (string, error) {
	args := m.Called(ctx, res)
	return args.String(0), args.Error(1)
}
