package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

const invalidMessage = "Invalid event data"

// ClubLookup resolves the owning club of an event.
type ClubLookup interface {
	Get(ctx context.Context, id string) (*clubs.Club, error)
}

type Service struct {
	repo  Repository
	clubs ClubLookup
}

func NewService(repo Repository, clubs ClubLookup) *Service {
	return &Service{repo: repo, clubs: clubs}
}

// List returns all events, or only those of clubID when it is set.
func (s *Service) List(ctx context.Context, clubID string) ([]Event, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID != "" {
		return s.repo.ListByClub(ctx, clubID)
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	params.ClubID = strings.TrimSpace(params.ClubID)
	params.Title = sanitize.Text(params.Title)
	params.Description = sanitize.Text(params.Description)
	params.Category = sanitize.Text(params.Category)
	params.CoverImage = sanitize.Text(params.CoverImage)
	params.Location = sanitize.Text(params.Location)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	if _, err := s.clubs.Get(ctx, params.ClubID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// Update merges params into the stored event. The merged event must still
// end after it starts and must not cap attendance below its current RSVPs.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Event, error) {
	if params.ClubID != nil {
		trimmed := strings.TrimSpace(*params.ClubID)
		params.ClubID = &trimmed
	}
	params.Title = sanitize.TextPtr(params.Title)
	params.Description = sanitize.TextPtr(params.Description)
	params.Category = sanitize.TextPtr(params.Category)
	params.CoverImage = sanitize.TextPtr(params.CoverImage)
	params.Location = sanitize.TextPtr(params.Location)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	if limit := params.MaxAttendees.Value; limit != nil && *limit < 0 {
		return nil, validation.New(invalidMessage, "maxAttendees", "must be at least 0")
	}
	if params.ClubID != nil {
		if _, err := s.clubs.Get(ctx, *params.ClubID); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, func(e *Event) error {
		params.Apply(e)
		if !e.EndDate.After(e.StartDate) {
			return validation.New(invalidMessage, "endDate", "must be after startDate")
		}
		if e.MaxAttendees != nil && *e.MaxAttendees < e.RSVPCount {
			return validation.New(invalidMessage, "maxAttendees",
				fmt.Sprintf("must be at least the current rsvpCount (%d)", e.RSVPCount))
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
