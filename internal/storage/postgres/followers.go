package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/jackc/pgx/v5"
)

type FollowerRepository struct {
	store *Store
}

const followerColumns = `id, club_id, student_name, student_email, created_at`

func scanFollower(row pgx.Row) (*followers.Follower, error) {
	var f followers.Follower
	if err := row.Scan(&f.ID, &f.ClubID, &f.StudentName, &f.StudentEmail, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}

func (r *FollowerRepository) ListByClub(ctx context.Context, clubID string) ([]followers.Follower, error) {
	rows, err := r.store.pool.Query(ctx, `
SELECT `+followerColumns+`
  FROM followers
 WHERE club_id = $1
 ORDER BY created_at DESC, id DESC`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	defer rows.Close()

	out := make([]followers.Follower, 0)
	for rows.Next() {
		f, err := scanFollower(rows)
		if err != nil {
			return nil, fmt.Errorf("scan follower: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Create bumps the club's member count first, which also locks the club
// row, then inserts. A duplicate rolls the bump back.
func (r *FollowerRepository) Create(ctx context.Context, params followers.CreateParams) (*followers.Follower, error) {
	var created *followers.Follower
	err := r.store.withTx(ctx, "follower_create", func(tx pgx.Tx) error {
		found, err := adjustMembers(ctx, tx, params.ClubID, 1)
		if err != nil {
			return err
		}
		if !found {
			return clubs.ErrNotFound
		}

		createdAt, id, err := r.store.stamp()
		if err != nil {
			return err
		}
		created, err = scanFollower(tx.QueryRow(ctx, `
INSERT INTO followers (id, club_id, student_name, student_email, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (club_id, student_email) DO NOTHING
RETURNING `+followerColumns,
			id, params.ClubID, params.StudentName, params.StudentEmail, createdAt,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return followers.ErrAlreadyFollowing
		}
		if err != nil {
			return fmt.Errorf("insert follower: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *FollowerRepository) Delete(ctx context.Context, clubID, email string) error {
	return r.store.withTx(ctx, "follower_delete", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM followers WHERE club_id = $1 AND student_email = $2`, clubID, email)
		if err != nil {
			return fmt.Errorf("delete follower: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return followers.ErrNotFound
		}
		_, err = adjustMembers(ctx, tx, clubID, -1)
		return err
	})
}
