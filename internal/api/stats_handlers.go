package api

import (
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := statsFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	summary, err := s.StatsService.Summary(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	filter, err := statsFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.StatsService.Aggregate(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.StatsService.Dashboard(r.Context(), r.URL.Query().Get("player"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.StatsService.Players(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"players": players})
}
