package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/api/problem"
	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/ids"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errBadJSON marks a body that could not be decoded. Its message is safe to
// show to clients.
type errBadJSON struct {
	reason string
}

func (e errBadJSON) Error() string { return e.reason }

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and trailing data.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errBadJSON{reason: "request body is empty"}
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxBytes):
			return err
		case errors.Is(err, io.EOF):
			return errBadJSON{reason: "request body is empty"}
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return errBadJSON{reason: "malformed JSON"}
		case errors.As(err, &typeErr):
			return errBadJSON{reason: fmt.Sprintf("%s has the wrong type", typeErr.Field)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return errBadJSON{reason: "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")}
		default:
			return errBadJSON{reason: err.Error()}
		}
	}
	if dec.More() {
		return errBadJSON{reason: "body must contain a single JSON object"}
	}
	return nil
}

// readJSON decodes the body into dst and writes the error response itself
// when that fails.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(r, dst)
	if err == nil {
		return true
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.MsgBodyTooLarge, err)
		return false
	}
	var bad errBadJSON
	if errors.As(err, &bad) {
		problem.Write(w, r, http.StatusBadRequest, problem.MsgInvalidJSON, err,
			problem.WithDetails(map[string]string{"body": bad.reason}))
		return false
	}
	problem.Write(w, r, http.StatusBadRequest, problem.MsgInvalidJSON, err)
	return false
}

var notFoundErrors = []error{
	clubs.ErrNotFound,
	events.ErrNotFound,
	registrations.ErrNotFound,
	followers.ErrNotFound,
	announcements.ErrNotFound,
	admins.ErrNotFound,
}

var badRequestErrors = []error{
	registrations.ErrCapacityExceeded,
	followers.ErrAlreadyFollowing,
	admins.ErrEmailTaken,
}

// writeError maps domain errors to status codes. The sentinel messages are
// written to clients as-is; anything unrecognised is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := validation.As(err); ok {
		problem.Write(w, r, http.StatusBadRequest, verr.Message, err, problem.WithDetails(verr.Details()))
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			problem.Write(w, r, http.StatusNotFound, target.Error(), err)
			return
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			problem.Write(w, r, http.StatusBadRequest, target.Error(), err)
			return
		}
	}
	if errors.Is(err, admins.ErrInvalidCredentials) {
		problem.Write(w, r, http.StatusUnauthorized, admins.ErrInvalidCredentials.Error(), err)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problem.MsgInternal, err)
}

// principal returns the admin attached by the session guard. Routes that
// call it are always wrapped by that guard, so a missing principal is a
// wiring bug and reported as 401.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.MsgNotAuthenticated, nil)
	}
	return p, ok
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	problem.Write(w, r, http.StatusForbidden, problem.MsgForbidden, nil)
}

func pathParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.PathValue(key))
}

// idParam reads an entity id from the path. Every stored id is a ULID, so
// anything else is answered with notFound before the store is touched.
func idParam(w http.ResponseWriter, r *http.Request, key string, notFound error) (string, bool) {
	id := pathParam(r, key)
	if err := ids.ValidateULID(id); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", notFound, err))
		return "", false
	}
	return id, true
}
