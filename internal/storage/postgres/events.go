package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

type EventRepository struct {
	store *Store
}

const eventColumns = `id, club_id, title, description, category, cover_image, location,
       start_date, end_date, max_attendees, rsvp_count, created_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var e events.Event
	if err := row.Scan(
		&e.ID,
		&e.ClubID,
		&e.Title,
		&e.Description,
		&e.Category,
		&e.CoverImage,
		&e.Location,
		&e.StartDate,
		&e.EndDate,
		&e.MaxAttendees,
		&e.RSVPCount,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_date ASC, id ASC`)
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID string) ([]events.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE club_id = $1 ORDER BY start_date ASC, id ASC`, clubID)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]events.Event, error) {
	rows, err := r.store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Get(ctx context.Context, id string) (*events.Event, error) {
	return getEvent(ctx, r.store.pool, id, false)
}

func getEvent(ctx context.Context, q queryer, id string, forUpdate bool) (*events.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanEvent(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	return insertEvent(ctx, r.store, r.store.pool, params, 0)
}

func insertEvent(ctx context.Context, s *Store, q queryer, params events.CreateParams, rsvps int) (*events.Event, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(q.QueryRow(ctx, `
INSERT INTO events (id, club_id, title, description, category, cover_image, location,
                    start_date, end_date, max_attendees, rsvp_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+eventColumns,
		id,
		params.ClubID,
		params.Title,
		params.Description,
		params.Category,
		params.CoverImage,
		params.Location,
		params.StartDate.UTC(),
		params.EndDate.UTC(),
		params.MaxAttendees,
		rsvps,
		createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// Update locks the row so the capacity check in apply sees the current
// rsvp_count. rsvp_count itself is never written here.
func (r *EventRepository) Update(ctx context.Context, id string, apply func(*events.Event) error) (*events.Event, error) {
	var updated *events.Event
	err := r.store.withTx(ctx, "event_update", func(tx pgx.Tx) error {
		current, err := getEvent(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := apply(current); err != nil {
			return err
		}
		updated, err = scanEvent(tx.QueryRow(ctx, `
UPDATE events
   SET club_id = $2, title = $3, description = $4, category = $5, cover_image = $6,
       location = $7, start_date = $8, end_date = $9, max_attendees = $10
 WHERE id = $1
RETURNING `+eventColumns,
			id,
			current.ClubID,
			current.Title,
			current.Description,
			current.Category,
			current.CoverImage,
			current.Location,
			current.StartDate.UTC(),
			current.EndDate.UTC(),
			current.MaxAttendees,
		))
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.store.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) IncrementRSVP(ctx context.Context, id string) error {
	return claimSeat(ctx, r.store.pool, id)
}

// claimSeat takes one seat if the event has room. The conditional UPDATE
// holds the row lock, so concurrent claims are serialised by Postgres.
func claimSeat(ctx context.Context, q queryer, eventID string) error {
	tag, err := q.Exec(ctx, `
UPDATE events
   SET rsvp_count = rsvp_count + 1
 WHERE id = $1
   AND (max_attendees IS NULL OR rsvp_count < max_attendees)`, eventID)
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return events.ErrNotFound
	}
	return events.ErrFull
}

func releaseSeat(ctx context.Context, q queryer, eventID string) error {
	if _, err := q.Exec(ctx, `UPDATE events SET rsvp_count = GREATEST(rsvp_count - 1, 0) WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}
