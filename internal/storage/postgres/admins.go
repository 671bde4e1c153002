package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/jackc/pgx/v5"
)

type AdminRepository struct {
	store *Store
}

const adminColumns = `id, email, name, club_id, is_super, password_hash, created_at`

func scanAdmin(row pgx.Row) (*admins.Admin, error) {
	var a admins.Admin
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.ClubID, &a.IsSuper, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func (r *AdminRepository) Get(ctx context.Context, id string) (*admins.Admin, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*admins.Admin, error) {
	return r.getBy(ctx, "email", email)
}

// column is always a literal from this file.
func (r *AdminRepository) getBy(ctx context.Context, column, value string) (*admins.Admin, error) {
	a, err := scanAdmin(r.store.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE `+column+` = $1`, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admins.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (r *AdminRepository) Create(ctx context.Context, params admins.CreateParams) (*admins.Admin, error) {
	createdAt, id, err := r.store.stamp()
	if err != nil {
		return nil, err
	}
	a, err := scanAdmin(r.store.pool.QueryRow(ctx, `
INSERT INTO admins (id, email, name, club_id, is_super, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+adminColumns,
		id, params.Email, params.Name, params.ClubID, params.IsSuper, params.PasswordHash, createdAt,
	))
	if isUniqueViolation(err) {
		return nil, admins.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return a, nil
}
