package services

import (
	"context"
	"time"

	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/narrator"
	"github.com/vytor/chesspulse/internal/repository"
	"github.com/vytor/chesspulse/internal/stats"
)

const (
	DefaultWindowDays = 7
	MaxWindowDays     = 365
)

// StatsService handles statistics-related business logic
type StatsService interface {
	Aggregate(ctx context.Context, filter models.StatsFilter) (*models.AggregationResult, error)
	Summary(ctx context.Context, filter models.StatsFilter) (*models.Summary, error)
	Dashboard(ctx context.Context, player string) (*models.Dashboard, error)
	Players(ctx context.Context) ([]string, error)
}

type statsService struct {
	events   repository.EventRepository
	narrator narrator.Narrator
	now      func() time.Time
}

// NewStatsService creates a new StatsService. llm may be nil, in which case
// summaries always come from the heuristic narrator.
func NewStatsService(events repository.EventRepository, llm narrator.Narrator, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{events: events, narrator: llm, now: now}
}

func (s *statsService) Aggregate(ctx context.Context, filter models.StatsFilter) (*models.AggregationResult, error) {
	log := logger.FromContext(ctx)

	days := filter.Days
	if days <= 0 {
		days = DefaultWindowDays
	}
	if days > MaxWindowDays {
		return nil, errors.NewValidationError("days", "must be at most 365")
	}
	player := NormalizeUsername(filter.Player)
	since := stats.Since(s.now(), days)

	log.Debug("aggregating events: player=%q, days=%d", player, days)

	events, err := s.events.Query(ctx, models.EventFilter{
		Service: models.ServiceChess,
		Player:  player,
		Since:   since,
	})
	if err != nil {
		log.Error("failed to query events: %v", err)
		return nil, errors.NewInternalError(err)
	}

	res := stats.Aggregate(events)
	res.Player = player
	res.WindowDays = days
	res.Since = since.UTC()
	return &res, nil
}

func (s *statsService) Summary(ctx context.Context, filter models.StatsFilter) (*models.Summary, error) {
	res, err := s.Aggregate(ctx, filter)
	if err != nil {
		return nil, err
	}

	narration := narrator.Narrate(ctx, s.narrator, *res)
	return &models.Summary{
		AggregationResult: *res,
		Insight:           narration.Text,
		Source:            narration.Source,
	}, nil
}

func (s *statsService) Dashboard(ctx context.Context, player string) (*models.Dashboard, error) {
	log := logger.FromContext(ctx)
	player = NormalizeUsername(player)
	now := s.now()

	players, err := s.Players(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.events.Query(ctx, models.EventFilter{
		Service: models.ServiceChess,
		Player:  player,
		Since:   stats.Since(now, stats.TimeClassWindowDays),
	})
	if err != nil {
		log.Error("failed to query dashboard events: %v", err)
		return nil, errors.NewInternalError(err)
	}

	d := stats.Dashboard(events, now)
	d.Player = player
	d.Players = players
	return &d, nil
}

func (s *statsService) Players(ctx context.Context) ([]string, error) {
	players, err := s.events.Players(ctx, models.ServiceChess)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list players: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return players, nil
}
