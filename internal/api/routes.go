package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))

		r.With(s.ingestRateLimit()).Post("/ingest", s.handleIngest)
		r.Get("/summary", s.handleSummary)
		r.Get("/stats", s.handleStats)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/players", s.handlePlayers)
	})
	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.CORSAllowedOrigins
}

func (s *Server) ingestRateLimit() func(http.Handler) http.Handler {
	if s.IngestRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.IngestRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, r, http.StatusTooManyRequests, errorResponse{
				Error: "too many ingest requests, try again later",
				Code:  "RATE_LIMITED",
			})
		}),
	)
}
