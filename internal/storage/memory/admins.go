package memory

import (
	"context"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
)

var (
	_ admins.Repository = (*AdminRepository)(nil)
	_ auth.SessionStore = (*SessionRepository)(nil)
)

type AdminRepository struct {
	store *Store
}

func (r *AdminRepository) Get(_ context.Context, id string) (*admins.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.admins[id]
	if !ok {
		return nil, admins.ErrNotFound
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*admins.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, admins.ErrNotFound
}

func (r *AdminRepository) Create(_ context.Context, params admins.CreateParams) (*admins.Admin, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.admins {
		if a.Email == params.Email {
			return nil, admins.ErrEmailTaken
		}
	}

	createdAt, id, err := r.store.stamp()
	if err != nil {
		return nil, err
	}
	a := admins.Admin{
		ID:           id,
		Email:        params.Email,
		Name:         params.Name,
		ClubID:       params.ClubID,
		IsSuper:      params.IsSuper,
		PasswordHash: params.PasswordHash,
		CreatedAt:    createdAt,
	}
	r.store.admins[id] = a
	return &a, nil
}

type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) Create(_ context.Context, session auth.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sessions[session.ID] = session
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*auth.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessions[id]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessions[id]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(r.store.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := 0
	for id, s := range r.store.sessions {
		if s.Expired(now) {
			delete(r.store.sessions, id)
			removed++
		}
	}
	return removed, nil
}
