package jobs

import (
	"context"
	"sort"
	"time"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/services"
)

// PlayerLister returns the players already present in the store.
type PlayerLister func(ctx context.Context) ([]string, error)

// Scheduler re-ingests tracked and known players on a fixed interval.
type Scheduler struct {
	Queue    JobQueue
	Players  PlayerLister
	Tracked  []string
	Interval time.Duration
}

// Run blocks until ctx is cancelled. A non-positive interval disables it.
func (s *Scheduler) Run(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("scheduler")
	if s.Interval <= 0 {
		log.Info("periodic sync disabled")
		return
	}

	log.Info("periodic sync every %v", s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick enqueues one ingestion per distinct player and returns how many were queued.
func (s *Scheduler) Tick(ctx context.Context) int {
	log := logger.FromContext(ctx).WithPrefix("scheduler")

	set := make(map[string]struct{})
	for _, p := range s.Tracked {
		if p = services.NormalizeUsername(p); p != "" {
			set[p] = struct{}{}
		}
	}
	if s.Players != nil {
		known, err := s.Players(ctx)
		if err != nil {
			log.Warn("failed to list known players: %v", err)
		}
		for _, p := range known {
			set[p] = struct{}{}
		}
	}

	players := make([]string, 0, len(set))
	for p := range set {
		players = append(players, p)
	}
	sort.Strings(players)

	queued := 0
	for _, p := range players {
		if err := s.Queue.EnqueueIngest(p); err != nil {
			log.Warn("failed to enqueue ingest for %s: %v", p, err)
			continue
		}
		queued++
	}
	log.Debug("queued %d of %d players for sync", queued, len(players))
	return queued
}
