package repository

import (
	"context"
	"errors"

	"github.com/vytor/chesspulse/internal/models"
)

// ErrInvalidStatus is returned by Append for a status outside {-1, 0, 1}.
var ErrInvalidStatus = errors.New("repository: event status must be -1, 0 or 1")

// EventRepository is the append-only store of game outcome events.
type EventRepository interface {
	// Exists reports whether an event with the same dedup key is stored.
	Exists(ctx context.Context, service, player, route string, createdAt int64) (bool, error)
	// Append stores e. It returns false when an event with the same dedup key already exists.
	Append(ctx context.Context, e models.GameEvent) (bool, error)
	Count(ctx context.Context, filter models.EventFilter) (int, error)
	// Query returns matching events ordered by created_at ascending.
	Query(ctx context.Context, filter models.EventFilter) ([]models.GameEvent, error)
	// Players lists every distinct player with stored events.
	Players(ctx context.Context, service string) ([]string, error)
}
