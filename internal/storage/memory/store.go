// Package memory is the in-process storage backend. All state lives behind a
// single mutex, so the cross-entity updates (registration plus RSVP count,
// follower plus member count) are atomic without further coordination.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/ids"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/storage"
)

var _ storage.Repository = (*Store)(nil)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	// lastStamp keeps createdAt non-decreasing even if the clock steps back.
	lastStamp time.Time

	clubs         map[string]clubs.Club
	events        map[string]events.Event
	registrations map[string]registrations.Registration
	followers     map[string]followers.Follower
	announcements map[string]announcements.Announcement
	admins        map[string]admins.Admin
	sessions      map[string]auth.Session
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		clubs:         make(map[string]clubs.Club),
		events:        make(map[string]events.Event),
		registrations: make(map[string]registrations.Registration),
		followers:     make(map[string]followers.Follower),
		announcements: make(map[string]announcements.Announcement),
		admins:        make(map[string]admins.Admin),
		sessions:      make(map[string]auth.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Clubs() clubs.Repository                 { return &ClubRepository{store: s} }
func (s *Store) Events() events.Repository               { return &EventRepository{store: s} }
func (s *Store) Registrations() registrations.Repository { return &RegistrationRepository{store: s} }
func (s *Store) Followers() followers.Repository         { return &FollowerRepository{store: s} }
func (s *Store) Announcements() announcements.Repository { return &AnnouncementRepository{store: s} }
func (s *Store) Admins() admins.Repository               { return &AdminRepository{store: s} }
func (s *Store) Sessions() auth.SessionStore             { return &SessionRepository{store: s} }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

// stamp returns a creation time and a matching ULID. Callers hold s.mu.
func (s *Store) stamp() (time.Time, string, error) {
	now := s.now().UTC()
	if now.Before(s.lastStamp) {
		now = s.lastStamp
	}
	s.lastStamp = now

	id, err := ids.NewULIDAt(now)
	if err != nil {
		return time.Time{}, "", err
	}
	return now, id, nil
}

// newestFirst orders by creation time, then id, both descending.
func newestFirst(aCreated, bCreated time.Time, aID, bID string) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	switch {
	case aID > bID:
		return -1
	case aID < bID:
		return 1
	}
	return 0
}
