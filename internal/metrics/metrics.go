package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chesspulse_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Ingestion
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_ingest_runs_total",
			Help: "Total number of ingestion runs by outcome",
		},
		[]string{"outcome"}, // "success", "player_not_found", "no_games", "fetch_failed", "error"
	)

	IngestEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_ingest_events_total",
			Help: "Games seen during ingestion by what happened to them",
		},
		[]string{"result"}, // "appended", "duplicate", "unknown_outcome"
	)

	// Provider
	ProviderFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_provider_fetch_attempts_total",
			Help: "Total number of chess.com HTTP attempts by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: "ok", "not_found", "error", "rejected"
	)

	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chesspulse_provider_fetch_duration_seconds",
			Help:    "Duration of chess.com HTTP attempts in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chesspulse_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Narration
	NarrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_narrations_total",
			Help: "Total number of summaries produced by source",
		},
		[]string{"source"},
	)

	// Workers
	WorkerQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chesspulse_worker_queue_depth",
			Help: "Number of jobs waiting in a worker pool queue",
		},
		[]string{"pool"},
	)

	WorkerJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chesspulse_worker_jobs_total",
			Help: "Total number of worker jobs by pool, job name and result",
		},
		[]string{"pool", "job", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordProviderFetch records one attempt against the chess.com API.
func RecordProviderFetch(endpoint, result string, duration time.Duration) {
	ProviderFetchTotal.WithLabelValues(endpoint, result).Inc()
	if duration > 0 {
		ProviderFetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}
