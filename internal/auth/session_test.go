package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *stubSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*SessionManager, *stubSessionStore, *testClock) {
	t.Helper()
	hashKey, blockKey, err := DeriveSessionKeys([]byte("test-session-secret"))
	require.NoError(t, err)

	store := newStubSessionStore()
	clock := &testClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	mgr := NewSessionManager(store, SessionConfig{
		HashKey:  hashKey,
		BlockKey: blockKey,
		Now:      clock.Now,
	})
	return mgr, store, clock
}

func superAdmin() Principal {
	return Principal{ID: "admin-1", Email: "admin@example.edu", Name: "Super Admin", IsSuper: true}
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestSessionStartAndLoad(t *testing.T) {
	mgr, store, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	session, err := mgr.Start(context.Background(), rec, superAdmin())
	require.NoError(t, err)
	require.Equal(t, 1, store.count())
	require.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(session.CreatedAt))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, DefaultSessionCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	require.NotContains(t, cookies[0].Value, session.ID)

	loaded, err := mgr.Load(requestWithCookies(cookies))
	require.NoError(t, err)
	require.Equal(t, session.ID, loaded.ID)
	require.Equal(t, superAdmin(), loaded.Principal)
}

func TestSessionLoadRejectsMissingAndTamperedCookies(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrSessionNotFound)

	tampered := &http.Cookie{Name: DefaultSessionCookieName, Value: "forged-value"}
	_, err = mgr.Load(requestWithCookies([]*http.Cookie{tampered}))
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	mgr, store, clock := newTestManager(t)

	rec := httptest.NewRecorder()
	_, err := mgr.Start(context.Background(), rec, superAdmin())
	require.NoError(t, err)
	cookies := rec.Result().Cookies()

	clock.Advance(23 * time.Hour)
	_, err = mgr.Load(requestWithCookies(cookies))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = mgr.Load(requestWithCookies(cookies))
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, 0, store.count())
}

func TestSessionEnd(t *testing.T) {
	mgr, store, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	_, err := mgr.Start(context.Background(), rec, superAdmin())
	require.NoError(t, err)
	cookies := rec.Result().Cookies()

	endRec := httptest.NewRecorder()
	require.NoError(t, mgr.End(endRec, requestWithCookies(cookies)))
	require.Equal(t, 0, store.count())

	cleared := endRec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)

	_, err = mgr.Load(requestWithCookies(cookies))
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionEndWithoutCookie(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.End(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)))
}

func TestSessionPrune(t *testing.T) {
	mgr, store, clock := newTestManager(t)

	_, err := mgr.Start(context.Background(), httptest.NewRecorder(), superAdmin())
	require.NoError(t, err)
	clock.Advance(12 * time.Hour)
	_, err = mgr.Start(context.Background(), httptest.NewRecorder(), superAdmin())
	require.NoError(t, err)

	clock.Advance(13 * time.Hour)
	removed, err := mgr.Prune(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, store.count())
}
