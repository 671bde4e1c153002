package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/jackc/pgx/v5"
)

type AnnouncementRepository struct {
	store *Store
}

const announcementColumns = `id, club_id, title, content, created_at`

func scanAnnouncement(row pgx.Row) (*announcements.Announcement, error) {
	var a announcements.Announcement
	if err := row.Scan(&a.ID, &a.ClubID, &a.Title, &a.Content, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]announcements.Announcement, error) {
	return r.list(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC, id DESC`)
}

func (r *AnnouncementRepository) ListByClub(ctx context.Context, clubID string) ([]announcements.Announcement, error) {
	return r.list(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE club_id = $1 ORDER BY created_at DESC, id DESC`, clubID)
}

func (r *AnnouncementRepository) list(ctx context.Context, query string, args ...any) ([]announcements.Announcement, error) {
	rows, err := r.store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	out := make([]announcements.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AnnouncementRepository) Get(ctx context.Context, id string) (*announcements.Announcement, error) {
	a, err := scanAnnouncement(r.store.pool.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, announcements.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return a, nil
}

func (r *AnnouncementRepository) Create(ctx context.Context, params announcements.CreateParams) (*announcements.Announcement, error) {
	return insertAnnouncement(ctx, r.store, r.store.pool, params)
}

func insertAnnouncement(ctx context.Context, s *Store, q queryer, params announcements.CreateParams) (*announcements.Announcement, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	a, err := scanAnnouncement(q.QueryRow(ctx, `
INSERT INTO announcements (id, club_id, title, content, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+announcementColumns,
		id, params.ClubID, params.Title, params.Content, createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}
	return a, nil
}
