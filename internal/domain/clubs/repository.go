package clubs

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("Club not found")

type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BannerImage string    `json:"bannerImage"`
	LogoImage   string    `json:"logoImage"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateParams is the insert payload. MemberCount only moves through follow
// and unfollow.
type CreateParams struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
	BannerImage string `json:"bannerImage" validate:"max=2048"`
	LogoImage   string `json:"logoImage" validate:"max=2048"`
}

// UpdateParams is a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,max=5000"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
	BannerImage *string `json:"bannerImage" validate:"omitempty,max=2048"`
	LogoImage   *string `json:"logoImage" validate:"omitempty,max=2048"`
}

// Apply merges the supplied fields into c.
func (p UpdateParams) Apply(c *Club) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.BannerImage != nil {
		c.BannerImage = *p.BannerImage
	}
	if p.LogoImage != nil {
		c.LogoImage = *p.LogoImage
	}
}

// Repository lists clubs newest first. Update runs apply against the current
// record atomically; an apply error aborts the update.
type Repository interface {
	List(ctx context.Context) ([]Club, error)
	Get(ctx context.Context, id string) (*Club, error)
	Create(ctx context.Context, params CreateParams) (*Club, error)
	Update(ctx context.Context, id string, apply func(*Club) error) (*Club, error)
	Delete(ctx context.Context, id string) error
	IncrementMembers(ctx context.Context, id string) error
	DecrementMembers(ctx context.Context, id string) error
}
