package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/chesspulse/internal/logger"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	ChessComBaseURL      string
	ChessComUserAgent    string
	ArchiveLimit         int
	MaxConcurrentArchive int
	FetchMaxAttempts     int
	FetchBaseDelay       time.Duration
	FetchRatePerSecond   float64

	IngestWorkerCount int
	IngestQueueSize   int
	SyncInterval      time.Duration
	TrackedPlayers    []string

	AnthropicAPIKey   string
	AnthropicModel    string
	NarratorMaxTokens int

	CORSAllowedOrigins []string
	IngestRateLimit    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:chesspulse.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		ChessComBaseURL:      envOr("CHESSCOM_BASE_URL", "https://api.chess.com/pub"),
		ChessComUserAgent:    envOr("CHESSCOM_USER_AGENT", "chesspulse/1.0"),
		ArchiveLimit:         envIntOr("ARCHIVE_LIMIT", 2),
		MaxConcurrentArchive: envIntOr("MAX_CONCURRENT_ARCHIVE", 2),
		FetchMaxAttempts:     envIntOr("FETCH_MAX_ATTEMPTS", 3),
		FetchBaseDelay:       envDurationOr("FETCH_BASE_DELAY", 500*time.Millisecond),
		FetchRatePerSecond:   envFloatOr("FETCH_RATE_PER_SECOND", 3),
		IngestWorkerCount:    envIntOr("INGEST_WORKER_COUNT", 1),
		IngestQueueSize:      envIntOr("INGEST_QUEUE_SIZE", 16),
		SyncInterval:         envDurationOr("SYNC_INTERVAL", 0),
		TrackedPlayers:       envListOr("TRACKED_PLAYERS", nil),
		AnthropicAPIKey:      envOr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:       envOr("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		NarratorMaxTokens:    envIntOr("NARRATOR_MAX_TOKENS", 300),
		CORSAllowedOrigins:   envListOr("CORS_ALLOWED_ORIGINS", []string{"*"}),
		IngestRateLimit:      envIntOr("INGEST_RATE_LIMIT", 10),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if !strings.HasPrefix(c.ChessComBaseURL, "http://") && !strings.HasPrefix(c.ChessComBaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("CHESSCOM_BASE_URL must be an http(s) URL (got %q)", c.ChessComBaseURL))
	}
	if c.ArchiveLimit < 1 {
		errs = append(errs, fmt.Sprintf("ARCHIVE_LIMIT must be at least 1 (got %d)", c.ArchiveLimit))
	}
	if c.MaxConcurrentArchive < 1 {
		errs = append(errs, fmt.Sprintf("MAX_CONCURRENT_ARCHIVE must be at least 1 (got %d)", c.MaxConcurrentArchive))
	}
	if c.FetchMaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("FETCH_MAX_ATTEMPTS must be at least 1 (got %d)", c.FetchMaxAttempts))
	}
	if c.FetchBaseDelay < 0 {
		errs = append(errs, fmt.Sprintf("FETCH_BASE_DELAY cannot be negative (got %s)", c.FetchBaseDelay))
	}
	if c.FetchRatePerSecond <= 0 {
		errs = append(errs, fmt.Sprintf("FETCH_RATE_PER_SECOND must be positive (got %g)", c.FetchRatePerSecond))
	}
	if c.IngestWorkerCount < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_WORKER_COUNT must be at least 1 (got %d)", c.IngestWorkerCount))
	}
	if c.IngestQueueSize < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_QUEUE_SIZE must be at least 1 (got %d)", c.IngestQueueSize))
	}
	if c.SyncInterval < 0 {
		errs = append(errs, fmt.Sprintf("SYNC_INTERVAL cannot be negative (got %s)", c.SyncInterval))
	}
	if c.NarratorMaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("NARRATOR_MAX_TOKENS must be at least 1 (got %d)", c.NarratorMaxTokens))
	}
	if c.IngestRateLimit < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_RATE_LIMIT must be at least 1 (got %d)", c.IngestRateLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// NarratorEnabled reports whether LLM credentials are configured.
func (c Config) NarratorEnabled() bool {
	return c.AnthropicAPIKey != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
