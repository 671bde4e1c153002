package handlers

import (
	"net/http"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Audit   *audit.Logger
}

func NewEventsHandler(service *events.Service, auditLogger *audit.Logger) *EventsHandler {
	return &EventsHandler{Service: service, Audit: auditLogger}
}

// List returns events soonest first, scoped to ?clubId= when present.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("clubId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", events.ErrNotFound)
	if !ok {
		return
	}
	event, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var params events.CreateParams
	if !readJSON(w, r, &params) {
		return
	}
	params.ClubID = strings.TrimSpace(params.ClubID)
	if params.ClubID != "" && !p.CanManageClub(params.ClubID) {
		forbidden(w, r)
		return
	}

	event, err := h.Service.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "event.create", "event", event.ID, audit.StatusSuccess,
		map[string]string{"club_id": event.ClubID, "title": event.Title})
	writeJSON(w, http.StatusCreated, event)
}

// Update requires rights over the event's club, and over the target club
// when the event is being moved.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id", events.ErrNotFound)
	if !ok {
		return
	}
	current, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !p.CanManageClub(current.ClubID) {
		forbidden(w, r)
		return
	}

	var params events.UpdateParams
	if !readJSON(w, r, &params) {
		return
	}
	if params.ClubID != nil {
		target := strings.TrimSpace(*params.ClubID)
		params.ClubID = &target
		if !p.CanManageClub(target) {
			forbidden(w, r)
			return
		}
	}

	event, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "event.update", "event", event.ID, audit.StatusSuccess, nil)
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id", events.ErrNotFound)
	if !ok {
		return
	}
	current, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !p.CanManageClub(current.ClubID) {
		forbidden(w, r)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "event.delete", "event", id, audit.StatusSuccess,
		map[string]string{"club_id": current.ClubID})
	w.WriteHeader(http.StatusNoContent)
}
