package memory

import (
	"context"
	"slices"

	"github.com/Togather-Foundation/clubhub/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	store *Store
}

func (r *EventRepository) List(context.Context) ([]events.Event, error) {
	return r.list(func(events.Event) bool { return true }), nil
}

func (r *EventRepository) ListByClub(_ context.Context, clubID string) ([]events.Event, error) {
	return r.list(func(e events.Event) bool { return e.ClubID == clubID }), nil
}

func (r *EventRepository) list(keep func(events.Event) bool) []events.Event {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]events.Event, 0)
	for _, e := range r.store.events {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	slices.SortFunc(out, func(a, b events.Event) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func (r *EventRepository) Get(_ context.Context, id string) (*events.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (r *EventRepository) Create(_ context.Context, params events.CreateParams) (*events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.insertEvent(params, 0)
}

func (r *EventRepository) Update(_ context.Context, id string, apply func(*events.Event) error) (*events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}

	updated := cloneEvent(current)
	if err := apply(&updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.RSVPCount = current.RSVPCount
	updated.CreatedAt = current.CreatedAt

	r.store.events[id] = cloneEvent(updated)
	return &updated, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.store.events, id)
	return nil
}

func (r *EventRepository) IncrementRSVP(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.claimSeat(id)
}

// Callers hold s.mu.
func (s *Store) insertEvent(params events.CreateParams, rsvps int) (*events.Event, error) {
	createdAt, id, err := s.stamp()
	if err != nil {
		return nil, err
	}
	e := events.Event{
		ID:           id,
		ClubID:       params.ClubID,
		Title:        params.Title,
		Description:  params.Description,
		Category:     params.Category,
		CoverImage:   params.CoverImage,
		Location:     params.Location,
		StartDate:    params.StartDate.UTC(),
		EndDate:      params.EndDate.UTC(),
		MaxAttendees: copyInt(params.MaxAttendees),
		RSVPCount:    rsvps,
		CreatedAt:    createdAt,
	}
	s.events[id] = e
	e = cloneEvent(e)
	return &e, nil
}

// claimSeat increments the RSVP count if the event has room. Callers hold s.mu.
func (s *Store) claimSeat(eventID string) error {
	e, ok := s.events[eventID]
	if !ok {
		return events.ErrNotFound
	}
	if e.Full() {
		return events.ErrFull
	}
	e.RSVPCount++
	s.events[eventID] = e
	return nil
}

// releaseSeat decrements the RSVP count, never below zero. Callers hold s.mu.
func (s *Store) releaseSeat(eventID string) {
	e, ok := s.events[eventID]
	if !ok {
		return
	}
	e.RSVPCount = max(e.RSVPCount-1, 0)
	s.events[eventID] = e
}

func cloneEvent(e events.Event) events.Event {
	e.MaxAttendees = copyInt(e.MaxAttendees)
	return e
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
