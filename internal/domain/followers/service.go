package followers

import (
	"context"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

const invalidMessage = "Invalid follower data"

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

func (s *Service) ListByClub(ctx context.Context, clubID string) ([]Follower, error) {
	return s.repo.ListByClub(ctx, strings.TrimSpace(clubID))
}

// Follow subscribes a student to a club and bumps its member count.
func (s *Service) Follow(ctx context.Context, params CreateParams) (*Follower, error) {
	params.ClubID = strings.TrimSpace(params.ClubID)
	params.StudentName = sanitize.Text(params.StudentName)
	params.StudentEmail = normalizeEmail(params.StudentEmail)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	if _, err := s.clubs.Get(ctx, params.ClubID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// Unfollow removes the (clubID, email) subscription. The member count only
// drops when a follower was actually removed.
func (s *Service) Unfollow(ctx context.Context, clubID, email string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(clubID), normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
