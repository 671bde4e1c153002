package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
)

type ClubsHandler struct {
	Service *clubs.Service
	Audit   *audit.Logger
}

func NewClubsHandler(service *clubs.Service, auditLogger *audit.Logger) *ClubsHandler {
	return &ClubsHandler{Service: service, Audit: auditLogger}
}

func (h *ClubsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ClubsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", clubs.ErrNotFound)
	if !ok {
		return
	}
	club, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// Create is open to any signed-in admin.
func (h *ClubsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	var params clubs.CreateParams
	if !readJSON(w, r, &params) {
		return
	}

	club, err := h.Service.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "club.create", "club", club.ID, audit.StatusSuccess, map[string]string{"name": club.Name})
	writeJSON(w, http.StatusCreated, club)
}

func (h *ClubsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id", clubs.ErrNotFound)
	if !ok {
		return
	}
	if !p.CanManageClub(id) {
		forbidden(w, r)
		return
	}
	var params clubs.UpdateParams
	if !readJSON(w, r, &params) {
		return
	}

	club, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "club.update", "club", club.ID, audit.StatusSuccess, nil)
	writeJSON(w, http.StatusOK, club)
}

// Delete removes only the club row. Its events, followers and announcements
// are left in place.
func (h *ClubsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id", clubs.ErrNotFound)
	if !ok {
		return
	}
	if !p.CanManageClub(id) {
		forbidden(w, r)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "club.delete", "club", id, audit.StatusSuccess, nil)
	w.WriteHeader(http.StatusNoContent)
}
