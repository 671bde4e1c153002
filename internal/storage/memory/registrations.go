package memory

import (
	"context"
	"slices"

	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	store *Store
}

func (r *RegistrationRepository) ListByEvent(_ context.Context, eventID string) ([]registrations.Registration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]registrations.Registration, 0)
	for _, reg := range r.store.registrations {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	slices.SortFunc(out, func(a, b registrations.Registration) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (r *RegistrationRepository) Get(_ context.Context, id string) (*registrations.Registration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reg, ok := r.store.registrations[id]
	if !ok {
		return nil, registrations.ErrNotFound
	}
	return &reg, nil
}

func (r *RegistrationRepository) Create(_ context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.claimSeat(params.EventID); err != nil {
		return nil, err
	}

	createdAt, id, err := r.store.stamp()
	if err != nil {
		r.store.releaseSeat(params.EventID)
		return nil, err
	}
	reg := registrations.Registration{
		ID:           id,
		EventID:      params.EventID,
		StudentName:  params.StudentName,
		StudentEmail: params.StudentEmail,
		CheckedIn:    false,
		CreatedAt:    createdAt,
	}
	r.store.registrations[id] = reg
	return &reg, nil
}

func (r *RegistrationRepository) CheckIn(_ context.Context, id string) (*registrations.Registration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reg, ok := r.store.registrations[id]
	if !ok {
		return nil, registrations.ErrNotFound
	}
	reg.CheckedIn = true
	r.store.registrations[id] = reg
	return &reg, nil
}

func (r *RegistrationRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reg, ok := r.store.registrations[id]
	if !ok {
		return registrations.ErrNotFound
	}
	delete(r.store.registrations, id)
	r.store.releaseSeat(reg.EventID)
	return nil
}
