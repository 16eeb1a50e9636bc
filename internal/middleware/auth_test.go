package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"season-admin/internal/domain"
	"season-admin/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSessionStore struct {
	rec    *domain.SessionRecord
	clears int
}

func (s *stubSessionStore) Load(r *http.Request) (*domain.SessionRecord, error) {
	return s.rec, nil
}

func (s *stubSessionStore) Save(w http.ResponseWriter, r *http.Request, rec *domain.SessionRecord) error {
	s.rec = rec
	return nil
}

func (s *stubSessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	s.clears++
	s.rec = nil
	return nil
}

func signMiddlewareToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := service.TokenClaims{
		UserID:  "u1",
		Email:   "admin@season.dev",
		Profile: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func runSessionAuth(store service.SessionStore) (*httptest.ResponseRecorder, *http.Request, bool) {
	var reachedNext bool
	var captured *http.Request

	handler := SessionAuthMiddleware(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reachedNext = true
		captured = r
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/", nil))
	return rec, captured, reachedNext
}

func TestSessionAuthMiddleware(t *testing.T) {
	t.Run("a live session reaches the handler with identity in context", func(t *testing.T) {
		token := signMiddlewareToken(t, time.Now().Add(time.Hour))
		store := &stubSessionStore{rec: &domain.SessionRecord{
			Token: token, UserID: "u1", Email: "admin@season.dev", Role: domain.RoleAdmin,
		}}

		rec, req, reachedNext := runSessionAuth(store)

		require.True(t, reachedNext)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, store.clears)

		userID, ok := GetUserID(req.Context())
		require.True(t, ok)
		assert.Equal(t, "u1", userID)

		role, ok := GetUserRole(req.Context())
		require.True(t, ok)
		assert.Equal(t, domain.RoleAdmin, role)
	})

	t.Run("a missing session is rejected with 401", func(t *testing.T) {
		store := &stubSessionStore{}

		rec, _, reachedNext := runSessionAuth(store)

		assert.False(t, reachedNext)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, store.clears)
	})

	t.Run("an expired session is cleared before the 401", func(t *testing.T) {
		token := signMiddlewareToken(t, time.Now().Add(-time.Minute))
		store := &stubSessionStore{rec: &domain.SessionRecord{Token: token}}

		rec, _, reachedNext := runSessionAuth(store)

		assert.False(t, reachedNext)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 1, store.clears)
	})

	t.Run("an undecodable token is cleared and rejected", func(t *testing.T) {
		store := &stubSessionStore{rec: &domain.SessionRecord{Token: "corrupted"}}

		rec, _, reachedNext := runSessionAuth(store)

		assert.False(t, reachedNext)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 1, store.clears)
	})
}

func TestRequireAdmin(t *testing.T) {
	run := func(role string, withRole bool) (*httptest.ResponseRecorder, bool) {
		var reachedNext bool
		handler := RequireAdmin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reachedNext = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
		if withRole {
			req = req.WithContext(context.WithValue(req.Context(), UserRoleKey, role))
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, reachedNext
	}

	t.Run("admin role passes", func(t *testing.T) {
		rec, reachedNext := run(domain.RoleAdmin, true)
		assert.True(t, reachedNext)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other roles are rejected", func(t *testing.T) {
		rec, reachedNext := run("Customer", true)
		assert.False(t, reachedNext)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role is rejected", func(t *testing.T) {
		rec, reachedNext := run("", false)
		assert.False(t, reachedNext)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
