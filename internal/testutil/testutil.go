package testutil

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesspulse/internal/db"
	"github.com/vytor/chesspulse/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Event builds a chess event for player at the given time.
func Event(player, timeClass string, outcome models.Outcome, at time.Time) models.GameEvent {
	return models.GameEvent{
		Service:   models.ServiceChess,
		Type:      models.EventTypeRequest,
		Route:     models.RouteFor(timeClass),
		Status:    outcome,
		CreatedAt: at.UTC().Truncate(time.Second),
		Player:    player,
	}
}
