package admins

import (
	"context"
	"errors"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
)

var (
	ErrNotFound           = errors.New("Admin not found")
	ErrEmailTaken         = errors.New("An admin with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

// Admin is an account allowed to manage clubs. The password hash never
// leaves the server.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ClubID       *string   `json:"clubId"`
	IsSuper      bool      `json:"isSuper"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a Admin) Principal() auth.Principal {
	return auth.Principal{
		ID:      a.ID,
		Email:   a.Email,
		Name:    a.Name,
		ClubID:  a.ClubID,
		IsSuper: a.IsSuper,
	}
}

// CreateParams is what the repository stores; the password is already hashed.
type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
	ClubID       *string
	IsSuper      bool
}

// Repository returns ErrEmailTaken when the email already exists.
type Repository interface {
	Get(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, params CreateParams) (*Admin, error)
}
