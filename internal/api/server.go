package api

import (
	"context"
	"html/template"

	"github.com/vytor/chesspulse/internal/jobs"
	"github.com/vytor/chesspulse/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	IngestService services.IngestService
	StatsService  services.StatsService
	// Queue is optional. Without it async ingestion requests run inline.
	Queue     jobs.JobQueue
	DB        Pinger
	Templates *template.Template

	CORSAllowedOrigins []string
	// IngestRateLimit is the number of ingest requests allowed per client IP
	// per minute. Zero disables the limit.
	IngestRateLimit int
}

type pageData map[string]any
