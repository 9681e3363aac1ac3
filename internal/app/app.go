package app

import (
	"time"

	"github.com/vytor/chesspulse/internal/chesscom"
	"github.com/vytor/chesspulse/internal/config"
	"github.com/vytor/chesspulse/internal/db"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/narrator"
	"github.com/vytor/chesspulse/internal/repository"
	"github.com/vytor/chesspulse/internal/repository/sqlite"
	"github.com/vytor/chesspulse/internal/services"
)

// App holds the components shared by the server and the CLI.
type App struct {
	DB     *db.DB
	Events repository.EventRepository
	Client *chesscom.Client
	Ingest services.IngestService
	Stats  services.StatsService
}

// New opens the database and wires the services from cfg.
func New(cfg config.Config) (*App, error) {
	log := logger.Default().WithPrefix("app")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	events := sqlite.NewEventRepository(database.DB)

	client := chesscom.New(chesscom.Options{
		BaseURL:   cfg.ChessComBaseURL,
		UserAgent: cfg.ChessComUserAgent,
		Retry: chesscom.RetryPolicy{
			MaxAttempts: cfg.FetchMaxAttempts,
			BaseDelay:   cfg.FetchBaseDelay,
		},
		RatePerSecond: cfg.FetchRatePerSecond,
	})

	var llm narrator.Narrator
	if cfg.NarratorEnabled() {
		llm = narrator.NewAnthropic(narrator.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Prompt: narrator.PromptConfig{
				Model:     cfg.AnthropicModel,
				MaxTokens: int64(cfg.NarratorMaxTokens),
			},
		})
		log.Info("LLM narrator enabled (model=%s)", cfg.AnthropicModel)
	} else {
		log.Info("no ANTHROPIC_API_KEY set, summaries use the heuristic narrator")
	}

	return &App{
		DB:     database,
		Events: events,
		Client: client,
		Ingest: services.NewIngestService(client, events, services.IngestConfig{
			ArchiveLimit:         cfg.ArchiveLimit,
			MaxConcurrentArchive: cfg.MaxConcurrentArchive,
		}),
		Stats: services.NewStatsService(events, llm, time.Now),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
