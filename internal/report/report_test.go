package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/report"
)

func TestPrintAggregation(t *testing.T) {
	var buf bytes.Buffer
	report.PrintAggregation(&buf, models.AggregationResult{
		Player:     "hikaru",
		WindowDays: 7,
		Total:      5,
		Wins:       3,
		Losses:     2,
		WinRate:    0.6,
		Buckets: []models.BucketStat{
			{Key: "blitz", Games: 4, Wins: 3, Losses: 1, WinRate: 0.75},
			{Key: "bullet", Games: 1, Losses: 1},
		},
		CurrentStreak: models.Streak{Type: models.StreakLoss, Length: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "Player: hikaru")
	assert.Contains(t, out, "Record: 3W-0D-2L (60.0%)")
	assert.Contains(t, out, "Streak: 2 losses")
	assert.Contains(t, out, "blitz")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "bullet")
}

func TestPrintAggregation_Empty(t *testing.T) {
	var buf bytes.Buffer
	report.PrintAggregation(&buf, models.AggregationResult{WindowDays: 30})

	assert.Contains(t, buf.String(), "Player: all players")
	assert.Contains(t, buf.String(), "No games in this window.")
}

func TestPrintIngestResult(t *testing.T) {
	var buf bytes.Buffer
	report.PrintIngestResult(&buf, models.IngestResult{
		Username:        "hikaru",
		GamesIngested:   2,
		SkippedExisting: 5,
		Message:         "Successfully ingested 2 new games. Total: 7",
	})

	assert.Equal(t, "Successfully ingested 2 new games. Total: 7 (hikaru: new=2 existing=5 unclassified=0)\n", buf.String())
}
