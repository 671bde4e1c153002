package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/jackc/pgx/v5"
)

// SessionRepository stores a snapshot of the principal with each session,
// so a request does not need to load the admin row.
type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) Create(ctx context.Context, session auth.Session) error {
	p := session.Principal
	_, err := r.store.pool.Exec(ctx, `
INSERT INTO sessions (id, admin_id, email, name, club_id, is_super, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, p.ID, p.Email, p.Name, p.ClubID, p.IsSuper, session.CreatedAt.UTC(), session.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*auth.Session, error) {
	var s auth.Session
	err := r.store.pool.QueryRow(ctx, `
SELECT id, admin_id, email, name, club_id, is_super, created_at, expires_at
  FROM sessions
 WHERE id = $1`, id).Scan(
		&s.ID,
		&s.Principal.ID,
		&s.Principal.Email,
		&s.Principal.Name,
		&s.Principal.ClubID,
		&s.Principal.IsSuper,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.store.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.store.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
