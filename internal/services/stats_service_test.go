package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/repository/sqlite"
	"github.com/vytor/chesspulse/internal/services"
	"github.com/vytor/chesspulse/internal/testutil"
	"github.com/vytor/chesspulse/internal/testutil/mocks"
)

func TestStatsService_AggregateWindow(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	repo := sqlite.NewEventRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	for _, e := range []models.GameEvent{
		testutil.Event("hikaru", "blitz", models.Win, now.Add(-8*24*time.Hour)),
		testutil.Event("hikaru", "blitz", models.Win, now.Add(-7*24*time.Hour)),
		testutil.Event("hikaru", "blitz", models.Loss, now.Add(-time.Hour)),
		testutil.Event("magnus", "rapid", models.Draw, now.Add(-time.Hour)),
	} {
		_, err := repo.Append(ctx, e)
		require.NoError(t, err)
	}

	svc := services.NewStatsService(repo, nil, func() time.Time { return now })

	res, err := svc.Aggregate(ctx, models.StatsFilter{Player: "Hikaru"})
	require.NoError(t, err)
	assert.Equal(t, "hikaru", res.Player)
	assert.Equal(t, 7, res.WindowDays)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Wins)
	assert.Equal(t, models.Streak{Type: models.StreakLoss, Length: 1}, res.CurrentStreak)

	all, err := svc.Aggregate(ctx, models.StatsFilter{Days: 30})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	assert.Len(t, all.Buckets, 2)
}

func TestStatsService_AggregateRejectsHugeWindow(t *testing.T) {
	svc := services.NewStatsService(new(mocks.MockEventRepository), nil, nil)

	_, err := svc.Aggregate(context.Background(), models.StatsFilter{Days: 1000})

	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestStatsService_AggregateStoreError(t *testing.T) {
	repo := new(mocks.MockEventRepository)
	repo.On("Query", mock.Anything, mock.Anything).Return(nil, stderrors.New("database is locked"))
	svc := services.NewStatsService(repo, nil, nil)

	_, err := svc.Aggregate(context.Background(), models.StatsFilter{})

	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestStatsService_SummaryFallsBackToHeuristic(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := new(mocks.MockEventRepository)
	repo.On("Query", mock.Anything, mock.Anything).Return([]models.GameEvent{
		testutil.Event("hikaru", "bullet", models.Win, now.Add(-2*time.Hour)),
		testutil.Event("hikaru", "bullet", models.Win, now.Add(-time.Hour)),
	}, nil)

	llm := new(mocks.MockNarrator)
	llm.On("Summarize", mock.Anything, mock.Anything).Return("", stderrors.New("timeout"))

	svc := services.NewStatsService(repo, llm, func() time.Time { return now })
	summary, err := svc.Summary(context.Background(), models.StatsFilter{})

	require.NoError(t, err)
	assert.Equal(t, models.NarrationSourceHeuristic, summary.Source)
	assert.Contains(t, summary.Insight, "Record: 2W-0D-0L (100.0% win rate)")
	assert.Contains(t, summary.Insight, "In bullet, focus on pre-moves")
	assert.Equal(t, 2, summary.Total)
}

func TestStatsService_SummaryZeroGames(t *testing.T) {
	repo := new(mocks.MockEventRepository)
	repo.On("Query", mock.Anything, mock.Anything).Return([]models.GameEvent{}, nil)
	svc := services.NewStatsService(repo, nil, nil)

	summary, err := svc.Summary(context.Background(), models.StatsFilter{})

	require.NoError(t, err)
	assert.Equal(t, "No games found in the last 7 days. Play some games to see insights!", summary.Insight)
	assert.Equal(t, models.NarrationSourceHeuristic, summary.Source)
}

func TestStatsService_Dashboard(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := new(mocks.MockEventRepository)
	repo.On("Players", mock.Anything, models.ServiceChess).Return([]string{"hikaru", "magnus"}, nil)
	repo.On("Query", mock.Anything, mock.MatchedBy(func(f models.EventFilter) bool {
		return f.Player == "hikaru" && f.Since.Equal(now.Add(-60*24*time.Hour))
	})).Return([]models.GameEvent{
		testutil.Event("hikaru", "blitz", models.Win, now.Add(-time.Hour)),
	}, nil)

	svc := services.NewStatsService(repo, nil, func() time.Time { return now })
	d, err := svc.Dashboard(context.Background(), "HIKARU")

	require.NoError(t, err)
	assert.Equal(t, "hikaru", d.Player)
	assert.Equal(t, []string{"hikaru", "magnus"}, d.Players)
	assert.Equal(t, 1, d.KPIs.Games)
	assert.Len(t, d.Daily, 31)
	repo.AssertExpectations(t)
}
