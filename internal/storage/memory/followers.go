package memory

import (
	"context"
	"slices"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
)

var _ followers.Repository = (*FollowerRepository)(nil)

type FollowerRepository struct {
	store *Store
}

func (r *FollowerRepository) ListByClub(_ context.Context, clubID string) ([]followers.Follower, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]followers.Follower, 0)
	for _, f := range r.store.followers {
		if f.ClubID == clubID {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b followers.Follower) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (r *FollowerRepository) Create(_ context.Context, params followers.CreateParams) (*followers.Follower, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clubs[params.ClubID]; !ok {
		return nil, clubs.ErrNotFound
	}
	if _, ok := r.store.findFollower(params.ClubID, params.StudentEmail); ok {
		return nil, followers.ErrAlreadyFollowing
	}

	createdAt, id, err := r.store.stamp()
	if err != nil {
		return nil, err
	}
	f := followers.Follower{
		ID:           id,
		ClubID:       params.ClubID,
		StudentName:  params.StudentName,
		StudentEmail: params.StudentEmail,
		CreatedAt:    createdAt,
	}
	r.store.followers[id] = f
	r.store.adjustMembers(params.ClubID, 1)
	return &f, nil
}

func (r *FollowerRepository) Delete(_ context.Context, clubID, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.findFollower(clubID, email)
	if !ok {
		return followers.ErrNotFound
	}
	delete(r.store.followers, id)
	r.store.adjustMembers(clubID, -1)
	return nil
}

// Callers hold s.mu.
func (s *Store) findFollower(clubID, email string) (string, bool) {
	for id, f := range s.followers {
		if f.ClubID == clubID && f.StudentEmail == email {
			return id, true
		}
	}
	return "", false
}
