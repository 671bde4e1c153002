package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowersHandler(t *testing.T) {
	f := newFixture(t)
	h := NewFollowersHandler(f.followers)
	club := f.club(t, "Hiking")

	body := fmt.Sprintf(`{"clubId":%q,"studentName":"Ada","studentEmail":"Ada+hike@Campus.edu"}`, club.ID)
	w := serve(h.Create, http.MethodPost, "/api/followers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	follower := decodeBody[followers.Follower](t, w)
	assert.Equal(t, "ada+hike@campus.edu", follower.StudentEmail)

	w = serve(h.Create, http.MethodPost, "/api/followers", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already following this club", decodeError(t, w).Error)

	w = serve(h.Create, http.MethodPost, "/api/followers", `{"clubId":"missing","studentName":"Ada","studentEmail":"ada@campus.edu"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := f.clubs.Get(t.Context(), club.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	w = serve(h.ListByClub, http.MethodGet, "/api/clubs/"+club.ID+"/followers", "", withPath("clubId", club.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]followers.Follower](t, w), 1)

	// Path values arrive unescaped from the mux.
	email := "ADA+hike@campus.edu"
	w = serve(h.Delete, http.MethodDelete, "/api/clubs/"+club.ID+"/followers/"+url.PathEscape(email), "",
		withPath("clubId", club.ID), withPath("email", email))
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = serve(h.Delete, http.MethodDelete, "/api/clubs/"+club.ID+"/followers/"+url.PathEscape(email), "",
		withPath("clubId", club.ID), withPath("email", email))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Follower not found", decodeError(t, w).Error)

	got, err = f.clubs.Get(t.Context(), club.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MemberCount)
}

func TestAnnouncementsHandler(t *testing.T) {
	f := newFixture(t)
	h := NewAnnouncementsHandler(f.announcements)
	a := f.club(t, "Hiking")
	b := f.club(t, "Sailing")

	for _, clubID := range []string{a.ID, b.ID} {
		body := fmt.Sprintf(`{"clubId":%q,"title":"Trip","content":"Meet at <i>the</i> gate"}`, clubID)
		w := serve(h.Create, http.MethodPost, "/api/announcements", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := serve(h.Create, http.MethodPost, "/api/announcements", `{"clubId":"missing","title":"t","content":"c"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h.Create, http.MethodPost, "/api/announcements", fmt.Sprintf(`{"clubId":%q,"title":""}`, a.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid announcement data", decodeError(t, w).Error)

	w = serve(h.List, http.MethodGet, "/api/announcements", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]announcements.Announcement](t, w), 2)

	w = serve(h.List, http.MethodGet, "/api/announcements?clubId="+b.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	scoped := decodeBody[[]announcements.Announcement](t, w)
	require.Len(t, scoped, 1)
	assert.Equal(t, b.ID, scoped[0].ClubID)
	assert.NotContains(t, scoped[0].Content, "<i>")

	w = serve(h.Get, http.MethodGet, "/api/announcements/"+scoped[0].ID, "", withPath("id", scoped[0].ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Trip", decodeBody[announcements.Announcement](t, w).Title)

	w = serve(h.Get, http.MethodGet, "/api/announcements/missing", "", withPath("id", "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
