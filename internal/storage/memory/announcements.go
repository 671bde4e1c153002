package memory

import (
	"context"
	"slices"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
)

var _ announcements.Repository = (*AnnouncementRepository)(nil)

type AnnouncementRepository struct {
	store *Store
}

func (r *AnnouncementRepository) List(context.Context) ([]announcements.Announcement, error) {
	return r.list(""), nil
}

func (r *AnnouncementRepository) ListByClub(_ context.Context, clubID string) ([]announcements.Announcement, error) {
	return r.list(clubID), nil
}

func (r *AnnouncementRepository) list(clubID string) []announcements.Announcement {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]announcements.Announcement, 0)
	for _, a := range r.store.announcements {
		if clubID == "" || a.ClubID == clubID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b announcements.Announcement) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out
}

func (r *AnnouncementRepository) Get(_ context.Context, id string) (*announcements.Announcement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.announcements[id]
	if !ok {
		return nil, announcements.ErrNotFound
	}
	return &a, nil
}

func (r *AnnouncementRepository) Create(_ context.Context, params announcements.CreateParams) (*announcements.Announcement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.insertAnnouncement(params)
}

// Callers hold s.mu.
func (s *Store) insertAnnouncement(params announcements.CreateParams) (*announcements.Announcement, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	a := announcements.Announcement{
		ID:        id,
		ClubID:    params.ClubID,
		Title:     params.Title,
		Content:   params.Content,
		CreatedAt: createdAt,
	}
	s.announcements[id] = a
	return &a, nil
}
