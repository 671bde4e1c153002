package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
)

type AnnouncementsHandler struct {
	Service *announcements.Service
}

func NewAnnouncementsHandler(service *announcements.Service) *AnnouncementsHandler {
	return &AnnouncementsHandler{Service: service}
}

func (h *AnnouncementsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("clubId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AnnouncementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", announcements.ErrNotFound)
	if !ok {
		return
	}
	announcement, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, announcement)
}

func (h *AnnouncementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params announcements.CreateParams
	if !readJSON(w, r, &params) {
		return
	}

	announcement, err := h.Service.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, announcement)
}
