package announcements

import (
	"context"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

const invalidMessage = "Invalid announcement data"

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

// List returns all announcements, or only those of clubID when it is set.
func (s *Service) List(ctx context.Context, clubID string) ([]Announcement, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID != "" {
		return s.repo.ListByClub(ctx, clubID)
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Announcement, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Announcement, error) {
	params.ClubID = strings.TrimSpace(params.ClubID)
	params.Title = sanitize.Text(params.Title)
	params.Content = sanitize.Text(params.Content)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	if _, err := s.clubs.Get(ctx, params.ClubID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}
