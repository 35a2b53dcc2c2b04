package middleware

import (
	"context"
	"net/http"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/auth"
)

// SessionResolver maps a session token to a user id. An empty id means the
// session is unknown or expired.
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// RequireAuth validates the session cookie or bearer token and injects the
// caller's Identity into the request context. Requests without a valid
// session are short-circuited with 401 before any handler runs.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized access"))
				return
			}

			userID, err := sessions.Get(r.Context(), token)
			if err != nil || userID == "" {
				api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized access"))
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
