package audit

import (
	"net"
	"net/http"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/rs/zerolog"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is one admin action. Actions are dotted names such as
// "club.update" or "admin.login".
type Entry struct {
	Timestamp    time.Time         `json:"timestamp"`
	Action       string            `json:"action"`
	AdminID      string            `json:"admin_id,omitempty"`
	AdminEmail   string            `json:"admin_email,omitempty"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	IPAddress    string            `json:"ip_address,omitempty"`
	Status       string            `json:"status"`
	Details      map[string]string `json:"details,omitempty"`
}

// Logger writes audit entries as structured events nested under "audit".
type Logger struct {
	output zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{output: logger.With().Str("log_type", "audit").Logger()}
}

func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	l.output.Info().Interface("audit", entry).Msg(entry.Action)
}

// LogFromRequest records an action taken by the admin attached to r.
func (l *Logger) LogFromRequest(r *http.Request, action, resourceType, resourceID, status string, details map[string]string) {
	entry := Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    clientIP(r),
		Status:       status,
		Details:      details,
	}
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		entry.AdminID = principal.ID
		entry.AdminEmail = principal.Email
	}
	l.Log(entry)
}

// LogLogin records a login attempt. The admin is not in the context yet, so
// the identity comes from the caller.
func (l *Logger) LogLogin(r *http.Request, email, adminID, status string) {
	l.Log(Entry{
		Action:     "admin.login",
		AdminID:    adminID,
		AdminEmail: email,
		IPAddress:  clientIP(r),
		Status:     status,
	})
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
