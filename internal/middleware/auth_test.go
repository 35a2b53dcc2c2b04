package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/subtrack/internal/auth"
)

// fakeSessions resolves tokens from a fixed map.
type fakeSessions struct {
	byToken map[string]string
	err     error
}

func (f *fakeSessions) Get(_ context.Context, sid string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byToken[sid], nil
}

func protected(t *testing.T, sessions SessionResolver) (http.Handler, *string) {
	t.Helper()
	var seenUser string
	h := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		seenUser = ident.UserID
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seenUser
}

func TestRequireAuthNoToken(t *testing.T) {
	h, _ := protected(t, &fakeSessions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized access"}`, rec.Body.String())
}

func TestRequireAuthUnknownSession(t *testing.T) {
	h, _ := protected(t, &fakeSessions{byToken: map[string]string{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized access"}`, rec.Body.String())
}

func TestRequireAuthResolverError(t *testing.T) {
	h, _ := protected(t, &fakeSessions{err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthSessionCookie(t *testing.T) {
	h, seen := protected(t, &fakeSessions{byToken: map[string]string{"tok-1": "user-1"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok-1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seen)
}

func TestRequireAuthBearerToken(t *testing.T) {
	h, seen := protected(t, &fakeSessions{byToken: map[string]string{"tok-2": "user-2"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", *seen)
}
