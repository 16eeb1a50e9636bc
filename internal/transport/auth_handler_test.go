package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"season-admin/internal/backend"
	"season-admin/internal/domain"
	"season-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoginClient struct {
	token string
	err   error
}

func (f *fakeLoginClient) Login(ctx context.Context, email, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

// fakeSessionStore counts saves and clears so tests can assert that
// nothing was persisted on a rejected sign-in.
type fakeSessionStore struct {
	rec     *domain.SessionRecord
	loadErr error
	saves   int
	clears  int
}

func (f *fakeSessionStore) Load(r *http.Request) (*domain.SessionRecord, error) {
	return f.rec, f.loadErr
}

func (f *fakeSessionStore) Save(w http.ResponseWriter, r *http.Request, rec *domain.SessionRecord) error {
	f.saves++
	f.rec = rec
	return nil
}

func (f *fakeSessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	f.clears++
	f.rec = nil
	return nil
}

var _ service.SessionStore = (*fakeSessionStore)(nil)

func signAuthTestToken(t *testing.T, profile string, expiresAt time.Time) string {
	t.Helper()

	claims := service.TokenClaims{
		UserID:  "u1",
		Email:   "admin@season.dev",
		Profile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func newAuthRouter(client service.LoginClient, store service.SessionStore) chi.Router {
	handler := NewAuthHandler(service.NewSessionService(client), store, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router, nil)
	return router
}

func postLogin(t *testing.T, router http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("admin sign-in persists the session and redirects", func(t *testing.T) {
		token := signAuthTestToken(t, domain.RoleAdmin, time.Now().Add(time.Hour))
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{token: token}, store)

		rec := postLogin(t, router, "admin@season.dev", "secret")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, store.saves)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "/", resp.RedirectTo)
		assert.Equal(t, 2000, resp.RedirectAfterMs)
		assert.Equal(t, "Login successful! Redirecting to your Admin dashboard...", resp.Notice.Message)
		assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	})

	t.Run("customer profile gets the authorization notice and no session", func(t *testing.T) {
		token := signAuthTestToken(t, "Customer", time.Now().Add(time.Hour))
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{token: token}, store)

		rec := postLogin(t, router, "shopper@season.dev", "secret")

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, store.saves)
		assert.Nil(t, store.rec)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		notice := resp["notice"].(map[string]interface{})
		assert.Equal(t, "SC: You are not authorized!", notice["message"])
		assert.Equal(t, float64(3000), resp["reloadAfterMs"])
	})

	t.Run("an upstream rejection passes its message through", func(t *testing.T) {
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{
			err: &backend.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"},
		}, store)

		rec := postLogin(t, router, "admin@season.dev", "wrong")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, store.saves)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		notice := resp["notice"].(map[string]interface{})
		assert.Equal(t, "Invalid credentials", notice["message"])
	})

	t.Run("an unreachable upstream yields the generic notice", func(t *testing.T) {
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{err: errors.New("connection refused")}, store)

		rec := postLogin(t, router, "admin@season.dev", "secret")

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Zero(t, store.saves)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		notice := resp["notice"].(map[string]interface{})
		assert.Equal(t, "Something went wrong", notice["message"])
	})

	t.Run("a malformed body is rejected with field errors", func(t *testing.T) {
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{}, store)

		rec := postLogin(t, router, "not-an-email", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, store.saves)
	})
}

func TestAuthHandler_Session(t *testing.T) {
	getSession := func(router http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("a live session redirects to the dashboard and is left alone", func(t *testing.T) {
		token := signAuthTestToken(t, domain.RoleAdmin, time.Now().Add(time.Hour))
		store := &fakeSessionStore{rec: &domain.SessionRecord{
			Token: token, UserID: "u1", Email: "admin@season.dev", Role: domain.RoleAdmin,
		}}
		router := newAuthRouter(&fakeLoginClient{}, store)

		rec := getSession(router)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, store.clears)
		assert.Zero(t, store.saves)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Authenticated)
		assert.Equal(t, "/", resp.RedirectTo)
		require.NotNil(t, resp.User)
		assert.Equal(t, "u1", resp.User.ID)
	})

	t.Run("an expired session is cleared and reported unauthenticated", func(t *testing.T) {
		token := signAuthTestToken(t, domain.RoleAdmin, time.Now().Add(-time.Minute))
		store := &fakeSessionStore{rec: &domain.SessionRecord{Token: token}}
		router := newAuthRouter(&fakeLoginClient{}, store)

		rec := getSession(router)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, store.clears)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Authenticated)
		assert.Nil(t, resp.User)
	})

	t.Run("no session at all clears nothing", func(t *testing.T) {
		store := &fakeSessionStore{}
		router := newAuthRouter(&fakeLoginClient{}, store)

		rec := getSession(router)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, store.clears)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Authenticated)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	store := &fakeSessionStore{rec: &domain.SessionRecord{Token: "anything"}}
	router := newAuthRouter(&fakeLoginClient{}, store)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.clears)
	assert.Nil(t, store.rec)
}
