package storage

import (
	"context"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
)

// Repository groups data access by domain. Both the in-memory and the
// PostgreSQL backends implement it.
type Repository interface {
	Clubs() clubs.Repository
	Events() events.Repository
	Registrations() registrations.Repository
	Followers() followers.Repository
	Announcements() announcements.Repository
	Admins() admins.Repository
	Sessions() auth.SessionStore

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error
	Close()
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)
