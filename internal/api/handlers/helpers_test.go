package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store

	clubs         *clubs.Service
	events        *events.Service
	registrations *registrations.Service
	followers     *followers.Service
	announcements *announcements.Service
	admins        *admins.Service
	audit         *audit.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	logger := zerolog.Nop()
	clubService := clubs.NewService(store.Clubs())
	eventService := events.NewService(store.Events(), clubService)

	return &fixture{
		store:         store,
		clubs:         clubService,
		events:        eventService,
		registrations: registrations.NewService(store.Registrations(), eventService, nil, logger),
		followers:     followers.NewService(store.Followers(), clubService),
		announcements: announcements.NewService(store.Announcements(), clubService),
		admins:        admins.NewService(store.Admins(), clubService, logger),
		audit:         audit.NewLogger(logger),
	}
}

func (f *fixture) club(t *testing.T, name string) *clubs.Club {
	t.Helper()
	club, err := f.clubs.Create(context.Background(), clubs.CreateParams{
		Name:        name,
		Description: name + " meets weekly",
		Category:    "Academic",
	})
	require.NoError(t, err)
	return club
}

func (f *fixture) event(t *testing.T, clubID string, maxAttendees *int) *events.Event {
	t.Helper()
	start := time.Now().Add(24 * time.Hour).UTC()
	event, err := f.events.Create(context.Background(), events.CreateParams{
		ClubID:       clubID,
		Title:        "Open night",
		Description:  "Come and meet the members",
		Category:     "Social",
		Location:     "Student union",
		StartDate:    start,
		EndDate:      start.Add(2 * time.Hour),
		MaxAttendees: maxAttendees,
	})
	require.NoError(t, err)
	return event
}

func superAdmin() *auth.Principal {
	return &auth.Principal{ID: "admin-super", Email: "root@campus.edu", Name: "Root", IsSuper: true}
}

func clubAdmin(clubID string) *auth.Principal {
	return &auth.Principal{ID: "admin-club", Email: "lead@campus.edu", Name: "Lead", ClubID: &clubID}
}

type requestOption func(*http.Request) *http.Request

func as(p *auth.Principal) requestOption {
	return func(r *http.Request) *http.Request {
		return r.WithContext(auth.WithPrincipal(r.Context(), *p))
	}
}

func withPath(key, value string) requestOption {
	return func(r *http.Request) *http.Request {
		r.SetPathValue(key, value)
		return r
	}
}

func serve(handler http.HandlerFunc, method, target, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		req = opt(req)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func intPtr(v int) *int { return &v }
