package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/jackc/pgx/v5"
)

type RegistrationRepository struct {
	store *Store
}

const registrationColumns = `id, event_id, student_name, student_email, checked_in, created_at`

func scanRegistration(row pgx.Row) (*registrations.Registration, error) {
	var reg registrations.Registration
	if err := row.Scan(&reg.ID, &reg.EventID, &reg.StudentName, &reg.StudentEmail, &reg.CheckedIn, &reg.CreatedAt); err != nil {
		return nil, err
	}
	reg.CreatedAt = reg.CreatedAt.UTC()
	return &reg, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]registrations.Registration, error) {
	rows, err := r.store.pool.Query(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE event_id = $1
 ORDER BY created_at DESC, id DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	out := make([]registrations.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, *reg)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) Get(ctx context.Context, id string) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.store.pool.QueryRow(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registrations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// Create claims a seat and inserts the registration in one transaction.
func (r *RegistrationRepository) Create(ctx context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	var created *registrations.Registration
	err := r.store.withTx(ctx, "registration_create", func(tx pgx.Tx) error {
		if err := claimSeat(ctx, tx, params.EventID); err != nil {
			return err
		}

		createdAt, id, err := r.store.stamp()
		if err != nil {
			return err
		}
		created, err = scanRegistration(tx.QueryRow(ctx, `
INSERT INTO registrations (id, event_id, student_name, student_email, checked_in, created_at)
VALUES ($1, $2, $3, $4, FALSE, $5)
RETURNING `+registrationColumns,
			id, params.EventID, params.StudentName, params.StudentEmail, createdAt,
		))
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *RegistrationRepository) CheckIn(ctx context.Context, id string) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.store.pool.QueryRow(ctx, `
UPDATE registrations SET checked_in = TRUE WHERE id = $1
RETURNING `+registrationColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registrations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check in registration: %w", err)
	}
	return reg, nil
}

// Delete removes the registration and gives its seat back.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	return r.store.withTx(ctx, "registration_delete", func(tx pgx.Tx) error {
		var eventID string
		err := tx.QueryRow(ctx, `DELETE FROM registrations WHERE id = $1 RETURNING event_id`, id).Scan(&eventID)
		if errors.Is(err, pgx.ErrNoRows) {
			return registrations.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete registration: %w", err)
		}
		return releaseSeat(ctx, tx, eventID)
	})
}
