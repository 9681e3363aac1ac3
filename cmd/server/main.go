package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chesspulse/internal/api"
	"github.com/vytor/chesspulse/internal/app"
	"github.com/vytor/chesspulse/internal/config"
	"github.com/vytor/chesspulse/internal/jobs"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("ChessPulse server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("archive_limit=%d", cfg.ArchiveLimit)
	log.Debug("max_concurrent_archive=%d", cfg.MaxConcurrentArchive)
	log.Debug("fetch_max_attempts=%d fetch_base_delay=%s", cfg.FetchMaxAttempts, cfg.FetchBaseDelay)
	log.Debug("ingest_worker_count=%d ingest_queue_size=%d", cfg.IngestWorkerCount, cfg.IngestQueueSize)
	log.Debug("sync_interval=%s tracked_players=%v", cfg.SyncInterval, cfg.TrackedPlayers)

	a, err := app.New(cfg)
	if err != nil {
		log.Error("failed to initialize: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		_ = a.Close()
	}()

	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	ingestPool := worker.NewPool("ingest", cfg.IngestWorkerCount, cfg.IngestQueueSize)
	queue := jobs.NewWorkerQueue(ingestPool, a.Ingest)
	scheduler := &jobs.Scheduler{
		Queue:    queue,
		Players:  a.Stats.Players,
		Tracked:  cfg.TrackedPlayers,
		Interval: cfg.SyncInterval,
	}

	srv := &api.Server{
		IngestService:      a.Ingest,
		StatsService:       a.Stats,
		Queue:              queue,
		DB:                 a.DB,
		Templates:          tmpl,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IngestRateLimit:    cfg.IngestRateLimit,
	}

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	ingestPool.Start(ctx)
	go scheduler.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler and ingest pool")
	cancel()
	ingestPool.Stop()

	log.Info("ChessPulse server stopped")
}
