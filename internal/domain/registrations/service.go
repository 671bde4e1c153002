package registrations

import (
	"context"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
	"github.com/rs/zerolog"
)

const invalidMessage = "Invalid registration data"

type EventLookup interface {
	Get(ctx context.Context, id string) (*events.Event, error)
}

// Notifier is told about successful registrations. Failures are logged and
// never undo the registration.
type Notifier interface {
	RegistrationConfirmed(ctx context.Context, registration Registration, event events.Event) error
}

type Service struct {
	repo     Repository
	events   EventLookup
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, events EventLookup, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		notifier: notifier,
		logger:   logger.With().Str("component", "registrations").Logger(),
	}
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Registration, error) {
	return s.repo.ListByEvent(ctx, strings.TrimSpace(eventID))
}

func (s *Service) Get(ctx context.Context, id string) (*Registration, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a student for an event. A missing event yields
// events.ErrNotFound; a full one yields ErrCapacityExceeded.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Registration, error) {
	params.EventID = strings.TrimSpace(params.EventID)
	params.StudentName = sanitize.Text(params.StudentName)
	params.StudentEmail = strings.ToLower(strings.TrimSpace(params.StudentEmail))

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}

	event, err := s.events.Get(ctx, params.EventID)
	if err != nil {
		return nil, err
	}
	if event.Full() {
		return nil, ErrCapacityExceeded
	}

	registration, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.RegistrationConfirmed(ctx, *registration, *event); err != nil {
			s.logger.Warn().Err(err).
				Str("registration_id", registration.ID).
				Str("event_id", event.ID).
				Msg("registration confirmation failed")
		}
	}
	return registration, nil
}

// CheckIn marks a registration as attended. Repeating it is not an error.
func (s *Service) CheckIn(ctx context.Context, id string) (*Registration, error) {
	return s.repo.CheckIn(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
