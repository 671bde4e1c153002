package followers

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("Follower not found")
	ErrAlreadyFollowing = errors.New("Already following this club")
)

type Follower struct {
	ID           string    `json:"id"`
	ClubID       string    `json:"clubId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	ClubID       string `json:"clubId" validate:"required"`
	StudentName  string `json:"studentName" validate:"required,max=200"`
	StudentEmail string `json:"studentEmail" validate:"required,email,max=320"`
}

// Repository keeps Club.MemberCount in step with follower rows: Create
// increments it and Delete decrements it (floored at zero) in the same
// atomic step. Create returns clubs.ErrNotFound for an unknown club and
// ErrAlreadyFollowing for a duplicate (clubId, studentEmail) pair.
type Repository interface {
	ListByClub(ctx context.Context, clubID string) ([]Follower, error)
	Create(ctx context.Context, params CreateParams) (*Follower, error)
	Delete(ctx context.Context, clubID, email string) error
}
