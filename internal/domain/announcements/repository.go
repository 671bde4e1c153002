package announcements

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("Announcement not found")

// Announcement is immutable once posted.
type Announcement struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"clubId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateParams struct {
	ClubID  string `json:"clubId" validate:"required"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

// Repository lists announcements newest first.
type Repository interface {
	List(ctx context.Context) ([]Announcement, error)
	ListByClub(ctx context.Context, clubID string) ([]Announcement, error)
	Get(ctx context.Context, id string) (*Announcement, error)
	Create(ctx context.Context, params CreateParams) (*Announcement, error)
}
