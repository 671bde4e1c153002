package middleware

import (
	"errors"
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/api/problem"
	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/rs/zerolog"
)

// RequireAdmin resolves the session cookie to a principal and stores it in
// the request context. Requests without a live session get 401.
func RequireAdmin(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.Load(r)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					problem.Write(w, r, http.StatusUnauthorized, problem.MsgNotAuthenticated, nil)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.MsgInternal, err)
				return
			}

			ctx := auth.WithPrincipal(r.Context(), session.Principal)
			logger := zerolog.Ctx(ctx).With().Str("admin_id", session.Principal.ID).Logger()
			ctx = logger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
