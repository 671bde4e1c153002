package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
)

type FollowersHandler struct {
	Service *followers.Service
}

func NewFollowersHandler(service *followers.Service) *FollowersHandler {
	return &FollowersHandler{Service: service}
}

// ListByClub serves GET /api/clubs/{clubId}/followers.
func (h *FollowersHandler) ListByClub(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByClub(r.Context(), pathParam(r, "clubId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FollowersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params followers.CreateParams
	if !readJSON(w, r, &params) {
		return
	}

	follower, err := h.Service.Follow(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.FollowsTotal.WithLabelValues("follow").Inc()
	writeJSON(w, http.StatusCreated, follower)
}

// Delete serves DELETE /api/clubs/{clubId}/followers/{email}.
func (h *FollowersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Unfollow(r.Context(), pathParam(r, "clubId"), r.PathValue("email")); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	w.WriteHeader(http.StatusNoContent)
}
