package handlers

import (
	"errors"
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

type RegistrationsHandler struct {
	Service *registrations.Service
	Events  *events.Service
	Audit   *audit.Logger
}

func NewRegistrationsHandler(service *registrations.Service, eventsService *events.Service, auditLogger *audit.Logger) *RegistrationsHandler {
	return &RegistrationsHandler{Service: service, Events: eventsService, Audit: auditLogger}
}

// ListByEvent serves GET /api/events/{eventId}/registrations.
func (h *RegistrationsHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByEvent(r.Context(), pathParam(r, "eventId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *RegistrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params registrations.CreateParams
	if !readJSON(w, r, &params) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return
	}

	registration, err := h.Service.Create(r.Context(), params)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		writeError(w, r, err)
		return
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, registration)
}

func registrationResult(err error) string {
	if _, ok := validation.As(err); ok {
		return "invalid"
	}
	switch {
	case errors.Is(err, registrations.ErrCapacityExceeded):
		return "full"
	case errors.Is(err, events.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// CheckIn serves PATCH /api/registrations/{id}/check-in. Repeat check-ins
// succeed and leave the registration checked in.
func (h *RegistrationsHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", registrations.ErrNotFound)
	if !ok {
		return
	}
	registration, err := h.Service.CheckIn(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.CheckInsTotal.Inc()
	writeJSON(w, http.StatusOK, registration)
}

// Delete cancels a registration and frees its seat. Only admins of the
// event's club may do this.
func (h *RegistrationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id", registrations.ErrNotFound)
	if !ok {
		return
	}
	registration, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	clubID := ""
	event, err := h.Events.Get(r.Context(), registration.EventID)
	switch {
	case err == nil:
		clubID = event.ClubID
	case !errors.Is(err, events.ErrNotFound):
		writeError(w, r, err)
		return
	}
	if !p.CanManageClub(clubID) {
		forbidden(w, r)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "registration.delete", "registration", id, audit.StatusSuccess,
		map[string]string{"event_id": registration.EventID})
	w.WriteHeader(http.StatusNoContent)
}
