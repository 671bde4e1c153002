package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
	"github.com/rs/zerolog"
)

const invalidMessage = "Invalid admin data"

type ClubLookup interface {
	Get(ctx context.Context, id string) (*clubs.Club, error)
}

// NewAdmin is the payload for creating an admin account.
type NewAdmin struct {
	Email    string  `json:"email" validate:"required,email,max=320"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     string  `json:"name" validate:"required,max=200"`
	ClubID   *string `json:"clubId" validate:"omitempty,min=1"`
	IsSuper  bool    `json:"isSuper"`
}

type Service struct {
	repo   Repository
	clubs  ClubLookup
	logger zerolog.Logger
}

func NewService(repo Repository, clubs ClubLookup, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		clubs:  clubs,
		logger: logger.With().Str("component", "admins").Logger(),
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Admin, error) {
	return s.repo.Get(ctx, id)
}

// Authenticate checks credentials. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Admin, error) {
	admin, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.ValidatePassword(admin, password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// ValidatePassword compares plaintext against the admin's stored hash.
func (s *Service) ValidatePassword(admin *Admin, plaintext string) bool {
	if admin == nil {
		return false
	}
	return auth.CheckPassword(admin.PasswordHash, plaintext)
}

func (s *Service) Create(ctx context.Context, params NewAdmin) (*Admin, error) {
	params.Email = normalizeEmail(params.Email)
	params.Name = sanitize.Text(params.Name)
	if params.ClubID != nil {
		trimmed := strings.TrimSpace(*params.ClubID)
		params.ClubID = &trimmed
	}

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	if len(params.Password) > auth.MaxPasswordBytes {
		return nil, validation.New(invalidMessage, "password", fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes))
	}
	if params.ClubID != nil {
		if _, err := s.clubs.Get(ctx, *params.ClubID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.Create(ctx, CreateParams{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		ClubID:       params.ClubID,
		IsSuper:      params.IsSuper,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("admin_id", admin.ID).
		Bool("is_super", admin.IsSuper).
		Msg("admin account created")
	return admin, nil
}

// EnsureAdmin creates the admin unless one with the same email exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, params NewAdmin) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, normalizeEmail(params.Email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("check admin: %w", err)
	}

	if _, err := s.Create(ctx, params); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
