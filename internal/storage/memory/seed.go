package memory

import (
	"context"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/storage"
)

var _ storage.Seeder = (*Store)(nil)

// Seed loads the demo directory. It is a no-op when clubs already exist.
func (s *Store) Seed(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clubs) > 0 {
		return nil
	}

	for _, fixture := range storage.Fixtures(now) {
		club, err := s.insertClub(fixture.Club, fixture.MemberCount)
		if err != nil {
			return err
		}
		for _, ev := range fixture.Events {
			ev.Event.ClubID = club.ID
			if _, err := s.insertEvent(ev.Event, ev.RSVPCount); err != nil {
				return err
			}
		}
		for _, a := range fixture.Announcements {
			a.ClubID = club.ID
			if _, err := s.insertAnnouncement(a); err != nil {
				return err
			}
		}
	}
	return nil
}
