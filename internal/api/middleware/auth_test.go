package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/service/auth"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestMiddleware(timeFunc func() time.Time) (*AuthMiddleware, auth.JWTService) {
	svc := auth.NewTestJWTService(testSecret, 24*time.Hour, timeFunc)
	return NewAuthMiddleware(svc), svc
}

// echoIdentityHandler writes the identity from the request context so tests
// can verify what the middleware injected.
func echoIdentityHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r)
		require.True(t, ok, "identity missing from context")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id":  identity.UserID.String(),
			"username": identity.Username,
		})
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	now := time.Now
	userID := uuid.New()

	t.Run("missing header is 401", func(t *testing.T) {
		t.Parallel()
		mw, _ := newTestMiddleware(now)

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		rr := httptest.NewRecorder()
		mw.Authenticate(echoIdentityHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing token")
	})

	t.Run("non-bearer header is 401", func(t *testing.T) {
		t.Parallel()
		mw, _ := newTestMiddleware(now)

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		mw.Authenticate(echoIdentityHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		t.Parallel()
		mw, _ := newTestMiddleware(now)

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		mw.Authenticate(echoIdentityHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid token")
	})

	t.Run("expired token is 403", func(t *testing.T) {
		t.Parallel()
		issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		genSvc := auth.NewTestJWTService(testSecret, time.Minute, func() time.Time {
			return issued
		})
		token, err := genSvc.GenerateToken(context.Background(), userID, "alice")
		require.NoError(t, err)

		// Validate well past expiry.
		mw, _ := newTestMiddleware(func() time.Time {
			return issued.Add(time.Hour)
		})

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		mw.Authenticate(echoIdentityHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("valid token injects identity", func(t *testing.T) {
		t.Parallel()
		mw, svc := newTestMiddleware(now)

		token, err := svc.GenerateToken(context.Background(), userID, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		mw.Authenticate(echoIdentityHandler(t)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "alice", body["username"])
	})
}
