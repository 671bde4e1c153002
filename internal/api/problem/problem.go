// Package problem writes JSON error bodies of the form {"error": "..."} and
// logs the underlying cause.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/json; charset=utf-8"

type Body struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type Option func(*Body)

// WithDetails attaches per-field messages, used for validation failures.
func WithDetails(details map[string]string) Option {
	return func(b *Body) {
		if len(details) > 0 {
			b.Details = details
		}
	}
}

// Write sends message with status. err is logged but never exposed: 5xx at
// error level and 4xx at warn.
func Write(w http.ResponseWriter, r *http.Request, status int, message string, err error, opts ...Option) {
	body := Body{Error: message}
	for _, opt := range opts {
		opt(&body)
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		var event *zerolog.Event
		if status >= 500 {
			event = logger.Error()
		} else {
			event = logger.Warn()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	WriteBody(w, status, body)
}

func WriteBody(w http.ResponseWriter, status int, body Body) {
	payload, err := json.Marshal(body)
	if err != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// Common messages shared by handlers and middleware.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgForbidden        = "Forbidden"
	MsgInternal         = "Internal server error"
	MsgInvalidJSON      = "Invalid JSON body"
	MsgTooManyRequests  = "Too many requests"
	MsgBodyTooLarge     = "Request body too large"
)
