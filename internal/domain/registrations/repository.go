package registrations

import (
	"context"
	"errors"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/domain/events"
)

var (
	ErrNotFound = errors.New("Registration not found")

	// ErrCapacityExceeded is returned when the event has no seats left.
	ErrCapacityExceeded = events.ErrFull
)

type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	CheckedIn    bool      `json:"checkedIn"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	EventID      string `json:"eventId" validate:"required"`
	StudentName  string `json:"studentName" validate:"required,max=200"`
	StudentEmail string `json:"studentEmail" validate:"required,email,max=320"`
}

// Repository lists registrations newest first.
//
// Create is atomic: it re-checks the event and its capacity, inserts the
// registration and increments the event's RSVP count as one step, returning
// events.ErrNotFound or ErrCapacityExceeded without side effects.
//
// Delete releases the seat by decrementing the event's RSVP count.
type Repository interface {
	ListByEvent(ctx context.Context, eventID string) ([]Registration, error)
	Get(ctx context.Context, id string) (*Registration, error)
	Create(ctx context.Context, params CreateParams) (*Registration, error)
	CheckIn(ctx context.Context, id string) (*Registration, error)
	Delete(ctx context.Context, id string) error
}
