package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesspulse/internal/app"
	"github.com/vytor/chesspulse/internal/config"
	"github.com/vytor/chesspulse/internal/models"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DBPath:               filepath.Join(t.TempDir(), "app.db"),
		ChessComBaseURL:      "http://127.0.0.1:0",
		ArchiveLimit:         2,
		MaxConcurrentArchive: 2,
		FetchMaxAttempts:     1,
		FetchBaseDelay:       time.Millisecond,
		NarratorMaxTokens:    300,
	}
}

func TestNew_WithoutAPIKeyUsesHeuristicNarrator(t *testing.T) {
	a, err := app.New(testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Stats.Summary(context.Background(), models.StatsFilter{})

	require.NoError(t, err)
	assert.Equal(t, models.NarrationSourceHeuristic, summary.Source)
	assert.Equal(t, "No games found in the last 7 days. Play some games to see insights!", summary.Insight)
}

func TestNew_StoresEventsInConfiguredDatabase(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.New(cfg)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	inserted, err := a.Events.Append(context.Background(), models.GameEvent{
		Service:   models.ServiceChess,
		Type:      models.EventTypeRequest,
		Route:     models.RouteFor("blitz"),
		Status:    models.Win,
		CreatedAt: now.Add(-time.Hour),
		Player:    "hikaru",
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, a.Close())

	reopened, err := app.New(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	players, err := reopened.Stats.Players(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hikaru"}, players)
}
