package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withSteppingClock makes createdAt strictly increasing so ordering
// assertions do not depend on wall-clock resolution.
func withSteppingClock(s *Store) {
	var mu sync.Mutex
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func seedClub(t *testing.T, s *Store, name string) *clubs.Club {
	t.Helper()
	c, err := s.Clubs().Create(context.Background(), clubs.CreateParams{
		Name:        name,
		Description: name + " description",
		Category:    "Games",
	})
	require.NoError(t, err)
	return c
}

func seedEvent(t *testing.T, s *Store, clubID string, start time.Time, max *int) *events.Event {
	t.Helper()
	e, err := s.Events().Create(context.Background(), events.CreateParams{
		ClubID:       clubID,
		Title:        "Open Night",
		Description:  "Bring a board",
		Category:     "Games",
		Location:     "Room 101",
		StartDate:    start,
		EndDate:      start.Add(2 * time.Hour),
		MaxAttendees: max,
	})
	require.NoError(t, err)
	return e
}

func rsvp(s *Store, eventID, email string) (*registrations.Registration, error) {
	return s.Registrations().Create(context.Background(), registrations.CreateParams{
		EventID:      eventID,
		StudentName:  "Student",
		StudentEmail: email,
	})
}

func TestClubRepository(t *testing.T) {
	s := newTestStore(t)
	withSteppingClock(s)
	ctx := context.Background()

	chess := seedClub(t, s, "Chess Club")
	goClub := seedClub(t, s, "Go Club")

	list, err := s.Clubs().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, goClub.ID, list[0].ID)

	_, err = adjustMembers(ctx, s.pool, chess.ID, 1)
	require.NoError(t, err)

	updated, err := s.Clubs().Update(ctx, chess.ID, func(c *clubs.Club) error {
		c.Name = "Chess Society"
		c.MemberCount = 500
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Chess Society", updated.Name)
	assert.Equal(t, 1, updated.MemberCount)
	assert.True(t, chess.CreatedAt.Equal(updated.CreatedAt))

	boom := errors.New("boom")
	_, err = s.Clubs().Update(ctx, chess.ID, func(c *clubs.Club) error {
		c.Name = "ignored"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Clubs().Get(ctx, chess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chess Society", got.Name)

	require.NoError(t, s.Clubs().DecrementMembers(ctx, chess.ID))
	require.NoError(t, s.Clubs().DecrementMembers(ctx, chess.ID))
	got, err = s.Clubs().Get(ctx, chess.ID)
	require.NoError(t, err)
	assert.Zero(t, got.MemberCount)

	require.NoError(t, s.Clubs().IncrementMembers(ctx, "missing"))
	require.NoError(t, s.Clubs().Delete(ctx, chess.ID))
	require.ErrorIs(t, s.Clubs().Delete(ctx, chess.ID), clubs.ErrNotFound)
	_, err = s.Clubs().Get(ctx, chess.ID)
	require.ErrorIs(t, err, clubs.ErrNotFound)
}

func TestEventRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chess := seedClub(t, s, "Chess Club")
	other := seedClub(t, s, "Go Club")
	base := time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)

	late := seedEvent(t, s, chess.ID, base.Add(48*time.Hour), intPtr(3))
	early := seedEvent(t, s, other.ID, base, nil)

	all, err := s.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Nil(t, all[0].MaxAttendees)
	require.NotNil(t, all[1].MaxAttendees)
	assert.Equal(t, 3, *all[1].MaxAttendees)

	scoped, err := s.Events().ListByClub(ctx, chess.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, late.ID, scoped[0].ID)

	updated, err := s.Events().Update(ctx, late.ID, func(e *events.Event) error {
		e.Title = "Finals"
		e.MaxAttendees = nil
		e.RSVPCount = 99
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Finals", updated.Title)
	assert.Nil(t, updated.MaxAttendees)
	assert.Zero(t, updated.RSVPCount)

	require.NoError(t, s.Events().Delete(ctx, late.ID))
	require.ErrorIs(t, s.Events().Delete(ctx, late.ID), events.ErrNotFound)
	_, err = s.Events().Update(ctx, late.ID, func(*events.Event) error { return nil })
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestIncrementRSVP(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClub(t, s, "Chess Club")
	e := seedEvent(t, s, c.ID, time.Now().Add(time.Hour), intPtr(1))

	require.NoError(t, s.Events().IncrementRSVP(ctx, e.ID))
	require.ErrorIs(t, s.Events().IncrementRSVP(ctx, e.ID), events.ErrFull)
	require.ErrorIs(t, s.Events().IncrementRSVP(ctx, "missing"), events.ErrNotFound)
}

func TestRegistrationRepository(t *testing.T) {
	s := newTestStore(t)
	withSteppingClock(s)
	ctx := context.Background()
	c := seedClub(t, s, "Chess Club")
	e := seedEvent(t, s, c.ID, time.Now().Add(time.Hour), intPtr(2))

	_, err := rsvp(s, e.ID, "a@example.edu")
	require.NoError(t, err)
	second, err := rsvp(s, e.ID, "b@example.edu")
	require.NoError(t, err)
	_, err = rsvp(s, e.ID, "c@example.edu")
	require.ErrorIs(t, err, registrations.ErrCapacityExceeded)
	_, err = rsvp(s, "missing", "c@example.edu")
	require.ErrorIs(t, err, events.ErrNotFound)

	regs, err := s.Registrations().ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, second.ID, regs[0].ID)

	for range 2 {
		checked, err := s.Registrations().CheckIn(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, checked.CheckedIn)
	}
	_, err = s.Registrations().CheckIn(ctx, "missing")
	require.ErrorIs(t, err, registrations.ErrNotFound)

	require.NoError(t, s.Registrations().Delete(ctx, second.ID))
	require.ErrorIs(t, s.Registrations().Delete(ctx, second.ID), registrations.ErrNotFound)
	_, err = s.Registrations().Get(ctx, second.ID)
	require.ErrorIs(t, err, registrations.ErrNotFound)

	got, err := s.Events().Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RSVPCount)
}

func TestConcurrentRegistrationsNeverOverbook(t *testing.T) {
	s := newTestStore(t)
	c := seedClub(t, s, "Chess Club")
	const capacity = 5
	e := seedEvent(t, s, c.ID, time.Now().Add(time.Hour), intPtr(capacity))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		full     int
	)
	for i := range 30 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := rsvp(s, e.ID, fmt.Sprintf("s%d@example.edu", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, events.ErrFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, accepted)
	assert.Equal(t, 25, full)

	got, err := s.Events().Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, got.RSVPCount)
}

func TestFollowerRepository(t *testing.T) {
	s := newTestStore(t)
	withSteppingClock(s)
	ctx := context.Background()
	c := seedClub(t, s, "Chess Club")

	_, err := s.Followers().Create(ctx, followers.CreateParams{ClubID: c.ID, StudentName: "Ann", StudentEmail: "ann@example.edu"})
	require.NoError(t, err)
	_, err = s.Followers().Create(ctx, followers.CreateParams{ClubID: c.ID, StudentName: "Ann", StudentEmail: "ann@example.edu"})
	require.ErrorIs(t, err, followers.ErrAlreadyFollowing)
	_, err = s.Followers().Create(ctx, followers.CreateParams{ClubID: c.ID, StudentName: "Bob", StudentEmail: "bob@example.edu"})
	require.NoError(t, err)
	_, err = s.Followers().Create(ctx, followers.CreateParams{ClubID: "missing", StudentName: "Bob", StudentEmail: "bob@example.edu"})
	require.ErrorIs(t, err, clubs.ErrNotFound)

	got, err := s.Clubs().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount, "duplicate follow must not count")

	list, err := s.Followers().ListByClub(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob@example.edu", list[0].StudentEmail)

	require.NoError(t, s.Followers().Delete(ctx, c.ID, "ann@example.edu"))
	require.ErrorIs(t, s.Followers().Delete(ctx, c.ID, "ann@example.edu"), followers.ErrNotFound)

	got, err = s.Clubs().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)
}

func TestAnnouncementRepository(t *testing.T) {
	s := newTestStore(t)
	withSteppingClock(s)
	ctx := context.Background()
	chess := seedClub(t, s, "Chess Club")
	goClub := seedClub(t, s, "Go Club")

	first, err := s.Announcements().Create(ctx, announcements.CreateParams{ClubID: chess.ID, Title: "One", Content: "c"})
	require.NoError(t, err)
	_, err = s.Announcements().Create(ctx, announcements.CreateParams{ClubID: goClub.ID, Title: "Two", Content: "c"})
	require.NoError(t, err)

	all, err := s.Announcements().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Two", all[0].Title)

	scoped, err := s.Announcements().ListByClub(ctx, chess.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)

	got, err := s.Announcements().Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "One", got.Title)
	_, err = s.Announcements().Get(ctx, "missing")
	require.ErrorIs(t, err, announcements.ErrNotFound)
}

func TestAdminRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	clubID := "01HZXCLUB"

	created, err := s.Admins().Create(ctx, admins.CreateParams{Email: "lead@example.edu", Name: "Lead", PasswordHash: "h", ClubID: &clubID})
	require.NoError(t, err)
	_, err = s.Admins().Create(ctx, admins.CreateParams{Email: "lead@example.edu", Name: "Other", PasswordHash: "h"})
	require.ErrorIs(t, err, admins.ErrEmailTaken)

	got, err := s.Admins().GetByEmail(ctx, "lead@example.edu")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.ClubID)
	assert.Equal(t, clubID, *got.ClubID)

	_, err = s.Admins().Get(ctx, "missing")
	require.ErrorIs(t, err, admins.ErrNotFound)
}

func TestSessionRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	principal := auth.Principal{ID: "a1", Email: "admin@example.edu", Name: "Admin", IsSuper: true}

	require.NoError(t, s.Sessions().Create(ctx, auth.Session{ID: "old", Principal: principal, CreatedAt: now.Add(-time.Hour), ExpiresAt: now}))
	require.NoError(t, s.Sessions().Create(ctx, auth.Session{ID: "live", Principal: principal, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	live, err := s.Sessions().Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, principal, live.Principal)
	assert.True(t, now.Add(time.Hour).Equal(live.ExpiresAt))

	removed, err := s.Sessions().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Sessions().Get(ctx, "old")
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
	require.NoError(t, s.Sessions().Delete(ctx, "live"))
	require.ErrorIs(t, s.Sessions().Delete(ctx, "live"), auth.ErrSessionNotFound)
}

func TestSeedRunsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Seed(ctx, now))
	require.NoError(t, s.Seed(ctx, now))

	list, err := s.Clubs().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(storage.Fixtures(now)))

	evs, err := s.Events().List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	for _, e := range evs {
		assert.NotEmpty(t, e.ClubID)
	}
}

func TestMigrationVersion(t *testing.T) {
	newTestStore(t)

	version, dirty, err := MigrationVersion(sharedDBURL)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
