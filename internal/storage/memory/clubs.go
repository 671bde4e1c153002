package memory

import (
	"context"
	"slices"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
)

var _ clubs.Repository = (*ClubRepository)(nil)

type ClubRepository struct {
	store *Store
}

func (r *ClubRepository) List(context.Context) ([]clubs.Club, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]clubs.Club, 0, len(r.store.clubs))
	for _, c := range r.store.clubs {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b clubs.Club) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (r *ClubRepository) Get(_ context.Context, id string) (*clubs.Club, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clubs[id]
	if !ok {
		return nil, clubs.ErrNotFound
	}
	return &c, nil
}

func (r *ClubRepository) Create(_ context.Context, params clubs.CreateParams) (*clubs.Club, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.insertClub(params, 0)
}

func (r *ClubRepository) Update(_ context.Context, id string, apply func(*clubs.Club) error) (*clubs.Club, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.clubs[id]
	if !ok {
		return nil, clubs.ErrNotFound
	}

	updated := current
	if err := apply(&updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.MemberCount = current.MemberCount
	updated.CreatedAt = current.CreatedAt

	r.store.clubs[id] = updated
	return &updated, nil
}

func (r *ClubRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clubs[id]; !ok {
		return clubs.ErrNotFound
	}
	delete(r.store.clubs, id)
	return nil
}

func (r *ClubRepository) IncrementMembers(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.adjustMembers(id, 1)
	return nil
}

func (r *ClubRepository) DecrementMembers(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.adjustMembers(id, -1)
	return nil
}

// insertClub is shared with seeding, which sets an initial member count.
// Callers hold s.mu.
func (s *Store) insertClub(params clubs.CreateParams, members int) (*clubs.Club, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	c := clubs.Club{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		BannerImage: params.BannerImage,
		LogoImage:   params.LogoImage,
		MemberCount: members,
		CreatedAt:   createdAt,
	}
	s.clubs[id] = c
	return &c, nil
}

// adjustMembers moves a club's member count, never below zero. Unknown clubs
// are ignored. Callers hold s.mu.
func (s *Store) adjustMembers(id string, delta int) {
	c, ok := s.clubs[id]
	if !ok {
		return
	}
	c.MemberCount = max(c.MemberCount+delta, 0)
	s.clubs[id] = c
}
