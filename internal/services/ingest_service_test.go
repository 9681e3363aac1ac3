package services_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/chesspulse/internal/chesscom"
	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/repository"
	"github.com/vytor/chesspulse/internal/repository/sqlite"
	"github.com/vytor/chesspulse/internal/services"
	"github.com/vytor/chesspulse/internal/testutil"
	"github.com/vytor/chesspulse/internal/testutil/mocks"
)

const (
	archiveJan = "https://api.chess.com/pub/player/hikaru/games/2024/01"
	archiveFeb = "https://api.chess.com/pub/player/hikaru/games/2024/02"
	archiveMar = "https://api.chess.com/pub/player/hikaru/games/2024/03"
)

var endTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func game(id string, timeClass string, end time.Time, white, whiteResult, black, blackResult string) chesscom.MonthlyGame {
	mg := chesscom.MonthlyGame{
		URL:       "https://www.chess.com/game/live/" + id,
		TimeClass: timeClass,
		White:     chesscom.Player{Username: white, Result: whiteResult},
		Black:     chesscom.Player{Username: black, Result: blackResult},
	}
	if !end.IsZero() {
		mg.EndTime = end.Unix()
	}
	return mg
}

type IngestServiceSuite struct {
	suite.Suite
	db      *sql.DB
	events  repository.EventRepository
	client  *mocks.MockChessClient
	service services.IngestService
	now     time.Time
}

func (s *IngestServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.events = sqlite.NewEventRepository(s.db)
	s.client = new(mocks.MockChessClient)
	s.now = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	s.service = services.NewIngestService(s.client, s.events, services.IngestConfig{
		ArchiveLimit:         2,
		MaxConcurrentArchive: 2,
		Now:                  func() time.Time { return s.now },
	})
}

func (s *IngestServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *IngestServiceSuite) TestIngest_EndToEnd() {
	ctx := context.Background()

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveFeb, archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveFeb).Return([]chesscom.MonthlyGame{}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{
		game("1", "blitz", endTime, "Hikaru", "win", "a", "resigned"),
		game("2", "blitz", endTime.Add(time.Hour), "b", "win", "hikaru", "checkmated"),
		game("3", "blitz", endTime.Add(2*time.Hour), "c", "timeout", "HIKARU", "win"),
		game("4", "blitz", endTime.Add(3*time.Hour), "hikaru", "kingofthehill", "d", "win"),
	}, nil)

	result, err := s.service.Ingest(ctx, "  Hikaru ")
	s.Require().NoError(err)
	s.Assert().Equal("hikaru", result.Username)
	s.Assert().Equal(3, result.GamesIngested)
	s.Assert().Equal(3, result.TotalGames)
	s.Assert().Equal(1, result.SkippedUnknown)
	s.Assert().Equal("Successfully ingested 3 new games. Total: 3", result.Message)

	events, err := s.events.Query(ctx, models.EventFilter{Service: models.ServiceChess, Player: "hikaru"})
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	for _, e := range events {
		s.Assert().Equal("/blitz", e.Route)
		s.Assert().Equal(models.EventTypeRequest, e.Type)
	}
	s.Assert().Equal(models.Win, events[0].Status)
	s.Assert().Equal(models.Loss, events[1].Status)
	s.Assert().Equal(models.Win, events[2].Status)
	s.Assert().True(events[0].CreatedAt.Equal(endTime))

	stats := services.NewStatsService(s.events, nil, func() time.Time { return s.now })
	agg, err := stats.Aggregate(ctx, models.StatsFilter{Player: "hikaru"})
	s.Require().NoError(err)
	s.Assert().Equal(3, agg.Total)
	s.Assert().Equal(2, agg.Wins)
	s.Assert().Equal(0, agg.Draws)
	s.Assert().Equal(1, agg.Losses)
	s.Assert().InDelta(0.667, agg.WinRate, 0.001)
	s.Require().Len(agg.Buckets, 1)
	s.Assert().Equal("blitz", agg.Buckets[0].Key)
	s.Assert().Equal(3, agg.Buckets[0].Games)

	s.client.AssertExpectations(s.T())
}

func (s *IngestServiceSuite) TestIngest_Idempotent() {
	ctx := context.Background()

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{
		game("1", "bullet", endTime, "hikaru", "win", "a", "resigned"),
		game("2", "rapid", endTime.Add(time.Hour), "hikaru", "agreed", "b", "agreed"),
	}, nil)

	first, err := s.service.Ingest(ctx, "hikaru")
	s.Require().NoError(err)
	s.Assert().Equal(2, first.GamesIngested)

	second, err := s.service.Ingest(ctx, "hikaru")
	s.Require().NoError(err)
	s.Assert().Equal(0, second.GamesIngested)
	s.Assert().Equal(2, second.SkippedExisting)
	s.Assert().Equal(2, second.TotalGames)
	s.Assert().Equal("Successfully ingested 0 new games. Total: 2", second.Message)
}

func (s *IngestServiceSuite) TestIngest_OnlyRecentArchives() {
	ctx := context.Background()

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveJan, archiveFeb, archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveFeb).Return([]chesscom.MonthlyGame{}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{}, nil)

	_, err := s.service.Ingest(ctx, "hikaru")
	s.Require().NoError(err)

	s.client.AssertNotCalled(s.T(), "FetchArchive", mock.Anything, archiveJan)
}

func (s *IngestServiceSuite) TestIngest_MissingTimeClassAndEndTime() {
	ctx := context.Background()

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{
		game("1", "", time.Time{}, "hikaru", "stalemate", "a", "stalemate"),
	}, nil)

	result, err := s.service.Ingest(ctx, "hikaru")
	s.Require().NoError(err)
	s.Assert().Equal(1, result.GamesIngested)

	events, err := s.events.Query(ctx, models.EventFilter{Player: "hikaru"})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Assert().Equal("/unknown", events[0].Route)
	s.Assert().Equal(models.Draw, events[0].Status)
	s.Assert().True(events[0].CreatedAt.Equal(s.now))
}

func (s *IngestServiceSuite) TestIngest_EmptyUsername() {
	_, err := s.service.Ingest(context.Background(), "   ")

	s.Assert().True(errors.HasCode(err, errors.ErrCodeValidation))
	s.client.AssertNotCalled(s.T(), "ListArchives", mock.Anything, mock.Anything)
}

func (s *IngestServiceSuite) TestIngest_PlayerNotFound() {
	s.client.On("ListArchives", mock.Anything, "ghost").Return(nil, chesscom.ErrPlayerNotFound)

	_, err := s.service.Ingest(context.Background(), "ghost")

	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodePlayerNotFound, appErr.Code)
	s.Assert().Equal(404, appErr.Status)
	s.Assert().Equal("user 'ghost' not found on Chess.com", appErr.Message)
}

func (s *IngestServiceSuite) TestIngest_NoArchives() {
	s.client.On("ListArchives", mock.Anything, "newbie").Return([]string{}, nil)

	_, err := s.service.Ingest(context.Background(), "newbie")

	s.Assert().True(errors.HasCode(err, errors.ErrCodeNoGamesFound))
}

func (s *IngestServiceSuite) TestIngest_FetchFailedKeepsEarlierArchives() {
	ctx := context.Background()
	cause := &chesscom.FetchError{URL: archiveMar, Attempts: 3, Err: stderrors.New("status 503")}

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveFeb, archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveFeb).Return([]chesscom.MonthlyGame{
		game("1", "blitz", endTime.AddDate(0, -1, 0), "hikaru", "win", "a", "resigned"),
	}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return(nil, cause)

	_, err := s.service.Ingest(ctx, "hikaru")

	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeFetchFailed, appErr.Code)
	s.Assert().Contains(appErr.Message, archiveMar)

	count, err := s.events.Count(ctx, models.EventFilter{Player: "hikaru"})
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *IngestServiceSuite) TestIngest_FetchFailedSkipsLaterArchives() {
	ctx := context.Background()
	cause := &chesscom.FetchError{URL: archiveFeb, Attempts: 3, Err: stderrors.New("status 503")}

	s.client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveFeb, archiveMar}, nil)
	s.client.On("FetchArchive", mock.Anything, archiveFeb).Return(nil, cause)
	s.client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{
		game("1", "blitz", endTime, "hikaru", "win", "a", "resigned"),
	}, nil)

	_, err := s.service.Ingest(ctx, "hikaru")

	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeFetchFailed, appErr.Code)
	s.Assert().Contains(appErr.Message, archiveFeb)

	count, err := s.events.Count(ctx, models.EventFilter{Player: "hikaru"})
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func TestIngestServiceSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceSuite))
}

func TestIngest_StoreFailureIsInternal(t *testing.T) {
	client := new(mocks.MockChessClient)
	events := new(mocks.MockEventRepository)
	service := services.NewIngestService(client, events, services.IngestConfig{})

	client.On("ListArchives", mock.Anything, "hikaru").Return([]string{archiveMar}, nil)
	client.On("FetchArchive", mock.Anything, archiveMar).Return([]chesscom.MonthlyGame{
		game("1", "blitz", endTime, "hikaru", "win", "a", "resigned"),
	}, nil)
	events.On("Exists", mock.Anything, models.ServiceChess, "hikaru", "/blitz", endTime.Unix()).Return(false, stderrors.New("disk I/O error"))

	_, err := service.Ingest(context.Background(), "hikaru")

	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal), "got %v", err)
	events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
