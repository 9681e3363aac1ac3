package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/vytor/chesspulse/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"percent": func(rate float64) string {
			return fmt.Sprintf("%.1f%%", rate*100)
		},
		// barHeight scales a day's game count to a 0-100 bar height.
		"barHeight": func(games, max int) int {
			if max <= 0 {
				return 0
			}
			return games * 100 / max
		},
		"datetime": func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.UTC().Format("2006-01-02 15:04 UTC")
		},
	}
	return template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	log := logger.FromContext(r.Context())
	if s.Templates == nil {
		log.Error("templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
