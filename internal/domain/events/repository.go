package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("Event not found")
	ErrFull     = errors.New("Event is at full capacity")
)

type Event struct {
	ID           string    `json:"id"`
	ClubID       string    `json:"clubId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	CoverImage   string    `json:"coverImage"`
	Location     string    `json:"location"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	MaxAttendees *int      `json:"maxAttendees"`
	RSVPCount    int       `json:"rsvpCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Full reports whether the event has reached its attendance cap. Events
// without a cap are never full.
func (e Event) Full() bool {
	return e.MaxAttendees != nil && e.RSVPCount >= *e.MaxAttendees
}

// CreateParams is the insert payload. RSVPCount only moves through
// registrations.
type CreateParams struct {
	ClubID       string    `json:"clubId" validate:"required"`
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required,max=5000"`
	Category     string    `json:"category" validate:"required,max=100"`
	CoverImage   string    `json:"coverImage" validate:"max=2048"`
	Location     string    `json:"location" validate:"required,max=300"`
	StartDate    time.Time `json:"startDate" validate:"required"`
	EndDate      time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	MaxAttendees *int      `json:"maxAttendees" validate:"omitempty,min=0"`
}

// Capacity is maxAttendees in a partial update. Set records that the field
// was sent at all, so an explicit null removes the cap while an absent
// field keeps it.
type Capacity struct {
	Set   bool
	Value *int
}

// LimitTo sets the cap to n.
func LimitTo(n int) Capacity {
	return Capacity{Set: true, Value: &n}
}

// Unlimited removes the cap.
var Unlimited = Capacity{Set: true}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	c.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.Value = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	c.Value = &n
	return nil
}

// UpdateParams is a partial update; nil fields are left unchanged.
type UpdateParams struct {
	ClubID       *string    `json:"clubId" validate:"omitempty,min=1"`
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,min=1,max=5000"`
	Category     *string    `json:"category" validate:"omitempty,min=1,max=100"`
	CoverImage   *string    `json:"coverImage" validate:"omitempty,max=2048"`
	Location     *string    `json:"location" validate:"omitempty,min=1,max=300"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	MaxAttendees Capacity   `json:"maxAttendees" validate:"-"`
}

func (p UpdateParams) Apply(e *Event) {
	if p.ClubID != nil {
		e.ClubID = *p.ClubID
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.CoverImage != nil {
		e.CoverImage = *p.CoverImage
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.MaxAttendees.Set {
		e.MaxAttendees = nil
		if p.MaxAttendees.Value != nil {
			limit := *p.MaxAttendees.Value
			e.MaxAttendees = &limit
		}
	}
}

// Repository lists events soonest first. IncrementRSVP is conditional on
// capacity and returns ErrFull when the cap is reached.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	ListByClub(ctx context.Context, clubID string) ([]Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, apply func(*Event) error) (*Event, error)
	Delete(ctx context.Context, id string) error
	IncrementRSVP(ctx context.Context, id string) error
}
