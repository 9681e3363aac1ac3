package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/chesspulse/internal/chesscom"
	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/metrics"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/repository"
)

// IngestService pulls a player's recent games from chess.com into the event store.
type IngestService interface {
	Ingest(ctx context.Context, username string) (*models.IngestResult, error)
}

type IngestConfig struct {
	ArchiveLimit         int
	MaxConcurrentArchive int
	// Now is used when a game has no end time. Defaults to time.Now.
	Now func() time.Time
}

type ingestService struct {
	client chesscom.ClientInterface
	events repository.EventRepository
	cfg    IngestConfig
}

// NewIngestService creates a new IngestService
func NewIngestService(client chesscom.ClientInterface, events repository.EventRepository, cfg IngestConfig) IngestService {
	if cfg.ArchiveLimit <= 0 {
		cfg.ArchiveLimit = 2
	}
	if cfg.MaxConcurrentArchive <= 0 {
		cfg.MaxConcurrentArchive = 2
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ingestService{client: client, events: events, cfg: cfg}
}

// NormalizeUsername lowercases and trims a chess.com username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *ingestService) Ingest(ctx context.Context, rawUsername string) (*models.IngestResult, error) {
	username := NormalizeUsername(rawUsername)
	if username == "" {
		metrics.IngestRunsTotal.WithLabelValues("invalid").Inc()
		return nil, errors.NewValidationError("username", "is required")
	}

	log := logger.FromContext(ctx).WithPrefix("ingest").WithField("username", username)
	ctx = logger.NewContext(ctx, log)
	start := time.Now()
	log.Info("starting ingestion")

	archives, err := s.client.ListArchives(ctx, username)
	if err != nil {
		if stderrors.Is(err, chesscom.ErrPlayerNotFound) {
			log.Warn("player not found on chess.com")
			metrics.IngestRunsTotal.WithLabelValues("player_not_found").Inc()
			return nil, errors.NewPlayerNotFoundError(username, err)
		}
		log.Error("failed to list archives: %v", err)
		metrics.IngestRunsTotal.WithLabelValues("fetch_failed").Inc()
		return nil, fetchFailed(err, "archives for "+username)
	}
	if len(archives) == 0 {
		log.Info("player has no archived games")
		metrics.IngestRunsTotal.WithLabelValues("no_games").Inc()
		return nil, errors.NewNoGamesFoundError(username)
	}

	recent := chesscom.RecentArchives(archives, s.cfg.ArchiveLimit)
	log.Debug("fetching %d of %d archives", len(recent), len(archives))

	monthly, fetchErrs := s.fetchArchives(ctx, recent)

	result := &models.IngestResult{Username: username}
	for i, games := range monthly {
		if fetchErrs[i] != nil {
			log.Error("failed to fetch archive %s, keeping %d games from earlier archives: %v",
				recent[i], result.GamesIngested, fetchErrs[i])
			metrics.IngestRunsTotal.WithLabelValues("fetch_failed").Inc()
			return nil, fetchFailed(fetchErrs[i], recent[i])
		}
		log.Debug("processing %d games from %s", len(games), recent[i])
		for _, mg := range games {
			if err := s.ingestGame(ctx, username, mg, result); err != nil {
				log.Error("failed to store event: %v", err)
				metrics.IngestRunsTotal.WithLabelValues("error").Inc()
				return nil, errors.NewInternalError(err)
			}
		}
	}

	total, err := s.events.Count(ctx, models.EventFilter{Service: models.ServiceChess, Player: username})
	if err != nil {
		log.Error("failed to count events: %v", err)
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return nil, errors.NewInternalError(err)
	}
	result.TotalGames = total
	result.Message = fmt.Sprintf("Successfully ingested %d new games. Total: %d", result.GamesIngested, total)

	metrics.IngestRunsTotal.WithLabelValues("success").Inc()
	log.Info("ingestion finished in %v: new=%d, existing=%d, unclassified=%d, total=%d",
		time.Since(start), result.GamesIngested, result.SkippedExisting, result.SkippedUnknown, total)
	return result, nil
}

// fetchArchives downloads archives concurrently. Results and errors are
// indexed like urls; one failed archive does not cancel the others.
func (s *ingestService) fetchArchives(ctx context.Context, urls []string) ([][]chesscom.MonthlyGame, []error) {
	out := make([][]chesscom.MonthlyGame, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentArchive)
	for i, url := range urls {
		g.Go(func() error {
			out[i], errs[i] = s.client.FetchArchive(ctx, url)
			return nil
		})
	}
	_ = g.Wait()
	return out, errs
}

func (s *ingestService) ingestGame(ctx context.Context, username string, mg chesscom.MonthlyGame, result *models.IngestResult) error {
	log := logger.FromContext(ctx)

	side, ok := chesscom.PlayerSide(username, mg)
	if !ok {
		log.Debug("skipping game %s: player on neither side", chesscom.GameID(mg.URL))
		result.SkippedUnknown++
		metrics.IngestEventsTotal.WithLabelValues("unknown_outcome").Inc()
		return nil
	}
	outcome, ok := chesscom.Classify(side.Result)
	if !ok {
		log.Debug("skipping game %s: unclassified result %q", chesscom.GameID(mg.URL), side.Result)
		result.SkippedUnknown++
		metrics.IngestEventsTotal.WithLabelValues("unknown_outcome").Inc()
		return nil
	}

	createdAt := time.Unix(mg.EndTime, 0).UTC()
	if mg.EndTime <= 0 {
		createdAt = s.cfg.Now().UTC().Truncate(time.Second)
		log.Warn("game %s has no end time, using ingestion time", chesscom.GameID(mg.URL))
	}

	event := models.GameEvent{
		Service:   models.ServiceChess,
		Type:      models.EventTypeRequest,
		Route:     models.RouteFor(mg.TimeClass),
		Status:    outcome,
		CreatedAt: createdAt,
		Player:    username,
	}

	exists, err := s.events.Exists(ctx, event.Service, event.Player, event.Route, createdAt.Unix())
	if err != nil {
		return err
	}
	if exists {
		result.SkippedExisting++
		metrics.IngestEventsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	inserted, err := s.events.Append(ctx, event)
	if err != nil {
		return err
	}
	if !inserted {
		result.SkippedExisting++
		metrics.IngestEventsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}
	result.GamesIngested++
	metrics.IngestEventsTotal.WithLabelValues("appended").Inc()
	return nil
}

func fetchFailed(err error, fallback string) *errors.AppError {
	var fetchErr *chesscom.FetchError
	if stderrors.As(err, &fetchErr) {
		return errors.NewFetchFailedError(fetchErr.URL, err)
	}
	return errors.NewFetchFailedError(fallback, err)
}
