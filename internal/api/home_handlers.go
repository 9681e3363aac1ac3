package api

import (
	"net/http"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	d, err := s.StatsService.Dashboard(r.Context(), r.URL.Query().Get("player"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	maxDaily := 0
	for _, p := range d.Daily {
		if p.Games > maxDaily {
			maxDaily = p.Games
		}
	}

	s.render(w, r, "dashboard.html", pageData{
		"dashboard": d,
		"max_daily": maxDaily,
	})
}
