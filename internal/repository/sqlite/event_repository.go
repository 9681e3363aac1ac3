package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository implementation
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Exists(ctx context.Context, service, player, route string, createdAt int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	query, args, err := sqlBuilder.Select("1").From("events").
		Where(squirrel.Eq{
			"service":    service,
			"player":     player,
			"route":      route,
			"created_at": createdAt,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return false, err
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		log.Error("failed to check event existence: %v", err)
		return false, err
	}
	return true, nil
}

func (r *eventRepository) Append(ctx context.Context, e models.GameEvent) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	if !e.Status.Valid() {
		log.Error("refusing to append event with status %d", int(e.Status))
		return false, fmt.Errorf("%w (got %d)", repository.ErrInvalidStatus, int(e.Status))
	}

	query, args, err := sqlBuilder.Insert("events").
		Columns("service", "type", "route", "status", "created_at", "player", "ingested_at").
		Values(e.Service, e.Type, e.Route, int(e.Status), e.CreatedAt.Unix(), e.Player, time.Now().Unix()).
		Suffix("ON CONFLICT (service, player, route, created_at) DO NOTHING").
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to append event: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.Debug("event already stored: player=%s, route=%s, created_at=%d", e.Player, e.Route, e.CreatedAt.Unix())
		return false, nil
	}
	return true, nil
}

func (r *eventRepository) Count(ctx context.Context, filter models.EventFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	query, args, err := applyFilter(sqlBuilder.Select("COUNT(*)").From("events"), filter).ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count events: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) Query(ctx context.Context, filter models.EventFilter) ([]models.GameEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("querying events: service=%s, player=%s, since=%v", filter.Service, filter.Player, filter.Since)

	query, args, err := applyFilter(
		sqlBuilder.Select("id", "service", "type", "route", "status", "created_at", "player").From("events"),
		filter,
	).OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.GameEvent
	for rows.Next() {
		var (
			e         models.GameEvent
			status    int
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Service, &e.Type, &e.Route, &status, &createdAt, &e.Player); err != nil {
			log.Error("failed to scan event row: %v", err)
			return nil, err
		}
		e.Status = models.Outcome(status)
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating event rows: %v", err)
		return nil, err
	}

	log.Debug("found %d events", len(events))
	return events, nil
}

func (r *eventRepository) Players(ctx context.Context, service string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	q := sqlBuilder.Select("DISTINCT player").From("events")
	if service != "" {
		q = q.Where(squirrel.Eq{"service": service})
	}
	query, args, err := q.OrderBy("player ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	defer rows.Close()

	players := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			log.Error("failed to scan player row: %v", err)
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func applyFilter(q squirrel.SelectBuilder, filter models.EventFilter) squirrel.SelectBuilder {
	if filter.Service != "" {
		q = q.Where(squirrel.Eq{"service": filter.Service})
	}
	if filter.Player != "" {
		q = q.Where(squirrel.Eq{"player": filter.Player})
	}
	if !filter.Since.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": filter.Since.Unix()})
	}
	if !filter.Until.IsZero() {
		q = q.Where(squirrel.Lt{"created_at": filter.Until.Unix()})
	}
	return q
}
