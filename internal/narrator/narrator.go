package narrator

import (
	"context"
	"strings"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/metrics"
	"github.com/vytor/chesspulse/internal/models"
)

// Narrator turns an aggregation into human-readable text.
type Narrator interface {
	Summarize(ctx context.Context, res models.AggregationResult) (string, error)
}

// Narrate asks llm for a summary and falls back to the heuristic text when
// llm is nil, fails, or returns nothing. It never fails.
func Narrate(ctx context.Context, llm Narrator, res models.AggregationResult) models.Narration {
	log := logger.FromContext(ctx).WithPrefix("narrator")

	if llm != nil {
		text, err := llm.Summarize(ctx, res)
		text = strings.TrimSpace(text)
		switch {
		case err != nil:
			log.Warn("llm narration failed, using heuristic: %v", err)
		case text == "":
			log.Warn("llm returned empty narration, using heuristic")
		default:
			metrics.NarrationsTotal.WithLabelValues(models.NarrationSourceLLM).Inc()
			return models.Narration{Text: text, Source: models.NarrationSourceLLM}
		}
	}

	text, _ := Heuristic{}.Summarize(ctx, res)
	metrics.NarrationsTotal.WithLabelValues(models.NarrationSourceHeuristic).Inc()
	return models.Narration{Text: text, Source: models.NarrationSourceHeuristic}
}
