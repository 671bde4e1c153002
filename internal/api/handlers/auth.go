package handlers

import (
	"errors"
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/Togather-Foundation/clubhub/internal/validation"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	Admins   *admins.Service
	Sessions *auth.SessionManager
	Audit    *audit.Logger
}

func NewAuthHandler(adminService *admins.Service, sessions *auth.SessionManager, auditLogger *audit.Logger) *AuthHandler {
	return &AuthHandler{Admins: adminService, Sessions: sessions, Audit: auditLogger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login handles POST /api/auth/login. On success the session cookie is set
// and the principal is returned.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := validation.Struct("Email and password are required", req); err != nil {
		writeError(w, r, err)
		return
	}

	admin, err := h.Admins.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			h.Audit.LogLogin(r, req.Email, "", audit.StatusFailure)
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		writeError(w, r, err)
		return
	}

	p := admin.Principal()
	if _, err := h.Sessions.Start(r.Context(), w, p); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		writeError(w, r, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.Audit.LogLogin(r, admin.Email, admin.ID, audit.StatusSuccess)
	writeJSON(w, http.StatusOK, p)
}

// Logout always succeeds from the client's point of view; a failure to
// delete the server-side record is only logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(w, r); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("logout failed to delete session")
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me returns the principal of the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}
