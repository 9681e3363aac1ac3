package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/stats"
	"github.com/vytor/chesspulse/internal/testutil"
)

func TestDaily_ZeroFilled(t *testing.T) {
	now := time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)
	events := []models.GameEvent{
		testutil.Event("hikaru", "blitz", models.Win, now.Add(-2*time.Hour)),
		testutil.Event("hikaru", "blitz", models.Loss, now.Add(-time.Hour)),
		testutil.Event("hikaru", "rapid", models.Win, now.Add(-3*24*time.Hour)),
	}

	points := stats.Daily(events, now, 30)

	require.Len(t, points, 31)
	assert.Equal(t, "2024-05-31", points[0].Date)
	assert.Equal(t, "2024-06-30", points[30].Date)

	today := points[30]
	assert.Equal(t, 2, today.Games)
	assert.Equal(t, 1, today.Wins)
	assert.InDelta(t, 0.5, today.WinRate, 1e-9)

	assert.Equal(t, "2024-06-27", points[27].Date)
	assert.Equal(t, 1, points[27].Games)

	assert.Equal(t, 0, points[10].Games)
	assert.Equal(t, 0.0, points[10].WinRate)
}

func TestDashboard(t *testing.T) {
	now := time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)
	events := []models.GameEvent{
		testutil.Event("hikaru", "rapid", models.Loss, now.Add(-40*24*time.Hour)),
		testutil.Event("hikaru", "rapid", models.Win, now.Add(-20*24*time.Hour)),
		testutil.Event("hikaru", "blitz", models.Win, now.Add(-2*24*time.Hour)),
		testutil.Event("hikaru", "blitz", models.Draw, now.Add(-time.Hour)),
		testutil.Event("hikaru", "blitz", models.Loss, now.Add(-time.Minute)),
	}

	d := stats.Dashboard(events, now)

	assert.Equal(t, 3, d.KPIs.Games)
	assert.Equal(t, 1, d.KPIs.Wins)
	assert.InDelta(t, 1.0/3.0, d.KPIs.WinRate, 1e-9)
	require.NotNil(t, d.KPIs.LastIngested)
	assert.True(t, d.KPIs.LastIngested.Equal(events[4].CreatedAt))

	require.Len(t, d.Daily, 31)
	total := 0
	for _, p := range d.Daily {
		total += p.Games
	}
	assert.Equal(t, 4, total)

	require.Len(t, d.ByTimeClass, 2)
	assert.Equal(t, "blitz", d.ByTimeClass[0].Key)
	assert.Equal(t, 3, d.ByTimeClass[0].Games)
	assert.Equal(t, "rapid", d.ByTimeClass[1].Key)
	assert.InDelta(t, 0.5, d.ByTimeClass[1].WinRate, 1e-9)
}

func TestDashboard_Empty(t *testing.T) {
	d := stats.Dashboard(nil, time.Now())

	assert.Equal(t, 0, d.KPIs.Games)
	assert.Nil(t, d.KPIs.LastIngested)
	assert.Len(t, d.Daily, 31)
	assert.Empty(t, d.ByTimeClass)
}
