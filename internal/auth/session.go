package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"
)

const (
	DefaultSessionCookieName = "clubhub_session"
	DefaultSessionTTL        = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string
	Principal Principal
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists session records.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	HashKey    []byte
	BlockKey   []byte
	Now        func() time.Time
}

// SessionManager issues signed session cookies and resolves them back to
// principals. The cookie only carries the session id.
type SessionManager struct {
	store      SessionStore
	codec      *securecookie.SecureCookie
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewSessionManager(store SessionStore, cfg SessionConfig) *SessionManager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.MaxAge(int(cfg.TTL / time.Second))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &SessionManager{
		store:      store,
		codec:      codec,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		now:        cfg.Now,
	}
}

func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Start creates a session for p and writes its cookie.
func (m *SessionManager) Start(ctx context.Context, w http.ResponseWriter, p Principal) (*Session, error) {
	now := m.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Principal: p,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	encoded, err := m.codec.Encode(m.cookieName, session.ID)
	if err != nil {
		return nil, fmt.Errorf("encode session cookie: %w", err)
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &session, nil
}

// Load resolves the request's cookie to a live session. Missing, tampered
// and expired cookies all yield ErrSessionNotFound.
func (m *SessionManager) Load(r *http.Request) (*Session, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return nil, ErrSessionNotFound
	}

	session, err := m.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if session.Expired(m.now()) {
		_ = m.store.Delete(r.Context(), id)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// End destroys the request's session, if any, and expires the cookie.
func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, ok := m.sessionID(r); ok {
		if delErr := m.store.Delete(r.Context(), id); delErr != nil && !errors.Is(delErr, ErrSessionNotFound) {
			err = fmt.Errorf("delete session: %w", delErr)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

func (m *SessionManager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	var id string
	if err := m.codec.Decode(m.cookieName, cookie.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Prune deletes expired session records.
func (m *SessionManager) Prune(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// RunPruner prunes expired sessions every interval until ctx is cancelled.
func (m *SessionManager) RunPruner(ctx context.Context, interval time.Duration, logger zerolog.Logger) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := m.Prune(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("session prune failed")
				continue
			}
			metrics.SessionsPrunedTotal.Add(float64(removed))
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("pruned expired sessions")
			}
		}
	}
}
