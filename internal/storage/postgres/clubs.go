package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/jackc/pgx/v5"
)

type ClubRepository struct {
	store *Store
}

const clubColumns = `id, name, description, category, banner_image, logo_image, member_count, created_at`

func scanClub(row pgx.Row) (*clubs.Club, error) {
	var c clubs.Club
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.BannerImage, &c.LogoImage, &c.MemberCount, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]clubs.Club, error) {
	rows, err := r.store.pool.Query(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	out := make([]clubs.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ClubRepository) Get(ctx context.Context, id string) (*clubs.Club, error) {
	return getClub(ctx, r.store.pool, id, false)
}

func getClub(ctx context.Context, q queryer, id string, forUpdate bool) (*clubs.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanClub(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clubs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return c, nil
}

func (r *ClubRepository) Create(ctx context.Context, params clubs.CreateParams) (*clubs.Club, error) {
	return insertClub(ctx, r.store, r.store.pool, params, 0)
}

func insertClub(ctx context.Context, s *Store, q queryer, params clubs.CreateParams, members int) (*clubs.Club, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	c, err := scanClub(q.QueryRow(ctx, `
INSERT INTO clubs (id, name, description, category, banner_image, logo_image, member_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+clubColumns,
		id, params.Name, params.Description, params.Category, params.BannerImage, params.LogoImage, members, createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert club: %w", err)
	}
	return c, nil
}

// Update locks the row, applies the change in Go and writes every mutable
// column back. member_count is not among them.
func (r *ClubRepository) Update(ctx context.Context, id string, apply func(*clubs.Club) error) (*clubs.Club, error) {
	var updated *clubs.Club
	err := r.store.withTx(ctx, "club_update", func(tx pgx.Tx) error {
		current, err := getClub(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := apply(current); err != nil {
			return err
		}
		updated, err = scanClub(tx.QueryRow(ctx, `
UPDATE clubs
   SET name = $2, description = $3, category = $4, banner_image = $5, logo_image = $6
 WHERE id = $1
RETURNING `+clubColumns,
			id, current.Name, current.Description, current.Category, current.BannerImage, current.LogoImage,
		))
		if err != nil {
			return fmt.Errorf("update club: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.store.pool.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clubs.ErrNotFound
	}
	return nil
}

// Unknown clubs are ignored by both counters.
func (r *ClubRepository) IncrementMembers(ctx context.Context, id string) error {
	_, err := adjustMembers(ctx, r.store.pool, id, 1)
	return err
}

func (r *ClubRepository) DecrementMembers(ctx context.Context, id string) error {
	_, err := adjustMembers(ctx, r.store.pool, id, -1)
	return err
}

// adjustMembers reports whether the club exists. Counts never drop below
// zero.
func adjustMembers(ctx context.Context, q queryer, id string, delta int) (bool, error) {
	tag, err := q.Exec(ctx, `UPDATE clubs SET member_count = GREATEST(member_count + $2, 0) WHERE id = $1`, id, delta)
	if err != nil {
		return false, fmt.Errorf("adjust member count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
