package api

import (
	"net/http"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/services"
)

type ingestRequest struct {
	Username string `json:"username" validate:"required"`
}

type ingestResponse struct {
	Success bool `json:"success"`
	*models.IngestResult
}

type queuedResponse struct {
	Success  bool   `json:"success"`
	Queued   bool   `json:"queued"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("async") == "true" && s.Queue != nil {
		if err := s.Queue.EnqueueIngest(req.Username); err != nil {
			handleError(w, r, err)
			return
		}
		username := services.NormalizeUsername(req.Username)
		log.Info("queued ingestion for %s", username)
		writeJSON(w, r, http.StatusAccepted, queuedResponse{
			Success:  true,
			Queued:   true,
			Username: username,
			Message:  "Ingestion queued",
		})
		return
	}

	res, err := s.IngestService.Ingest(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ingestResponse{Success: true, IngestResult: res})
}
