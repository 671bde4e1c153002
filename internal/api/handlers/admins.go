package handlers

import (
	"net/http"
	"strconv"

	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
)

type AdminsHandler struct {
	Service *admins.Service
	Audit   *audit.Logger
}

func NewAdminsHandler(service *admins.Service, auditLogger *audit.Logger) *AdminsHandler {
	return &AdminsHandler{Service: service, Audit: auditLogger}
}

// Create handles POST /api/admins. Only super-admins may add accounts.
func (h *AdminsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !p.IsSuper {
		h.Audit.LogFromRequest(r, "admin.create", "admin", "", audit.StatusFailure,
			map[string]string{"reason": "not a super-admin"})
		forbidden(w, r)
		return
	}

	var params admins.NewAdmin
	if !readJSON(w, r, &params) {
		return
	}

	admin, err := h.Service.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.LogFromRequest(r, "admin.create", "admin", admin.ID, audit.StatusSuccess,
		map[string]string{"is_super": strconv.FormatBool(admin.IsSuper)})
	writeJSON(w, http.StatusCreated, admin)
}
