package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"season-admin/internal/domain"
	"season-admin/internal/repository"

	"github.com/gorilla/sessions"
)

// SessionCookieName is the cookie carrying the dashboard session.
const SessionCookieName = "sc-admin-session"

const (
	keyToken     = "token"
	keySessionID = "sessionId"
	keyUserID    = "userId"
	keyEmail     = "userEmail"
	keyRole      = "role"
)

// SessionStore is the explicit session-context contract. Load returns
// (nil, nil) when no session is present.
type SessionStore interface {
	Load(r *http.Request) (*domain.SessionRecord, error)
	Save(w http.ResponseWriter, r *http.Request, rec *domain.SessionRecord) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieSessionStore keeps the token and identity fields in an
// authenticated cookie, the server-side analogue of the localStorage
// entries the old dashboard kept.
type CookieSessionStore struct {
	store *sessions.CookieStore
}

// NewCookieSessionStore creates a cookie-backed store. Keys are the
// gorilla/sessions authentication (and optional encryption) key pairs.
func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session lifetime is governed by the token expiry
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) Load(r *http.Request) (*domain.SessionRecord, error) {
	sess, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		// A cookie that fails authentication is treated as absent.
		return nil, nil
	}

	token, ok := sess.Values[keyToken].(string)
	if !ok || token == "" {
		return nil, nil
	}

	rec := &domain.SessionRecord{Token: token}
	if id, ok := sess.Values[keySessionID].(string); ok {
		rec.ID = id
	}
	if userID, ok := sess.Values[keyUserID].(string); ok {
		rec.UserID = userID
	}
	if email, ok := sess.Values[keyEmail].(string); ok {
		rec.Email = email
	}
	if role, ok := sess.Values[keyRole].(string); ok {
		rec.Role = role
	}
	if claims, err := DecodeToken(token); err == nil {
		rec.ExpiresAt = claims.ExpiresAt.Time
	}
	return rec, nil
}

func (c *CookieSessionStore) Save(w http.ResponseWriter, r *http.Request, rec *domain.SessionRecord) error {
	sess, _ := c.store.New(r, SessionCookieName)
	sess.Values[keyToken] = rec.Token
	sess.Values[keySessionID] = rec.ID
	sess.Values[keyUserID] = rec.UserID
	sess.Values[keyEmail] = rec.Email
	sess.Values[keyRole] = rec.Role
	return sess.Save(r, w)
}

func (c *CookieSessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.Get(r, SessionCookieName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// DBSessionStore keeps only a session id in the cookie and the record in
// the sessions table, so sessions survive key rotation and can be swept.
type DBSessionStore struct {
	cookies *sessions.CookieStore
	repo    repository.SessionRepository
}

// NewDBSessionStore creates a database-backed store. The cookie still
// needs key pairs because it authenticates the session id.
func NewDBSessionStore(repo repository.SessionRepository, secure bool, keyPairs ...[]byte) *DBSessionStore {
	cookies := sessions.NewCookieStore(keyPairs...)
	cookies.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &DBSessionStore{cookies: cookies, repo: repo}
}

func (d *DBSessionStore) Load(r *http.Request) (*domain.SessionRecord, error) {
	sess, err := d.cookies.Get(r, SessionCookieName)
	if err != nil {
		return nil, nil
	}

	id, ok := sess.Values[keySessionID].(string)
	if !ok || id == "" {
		return nil, nil
	}

	rec, err := d.repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (d *DBSessionStore) Save(w http.ResponseWriter, r *http.Request, rec *domain.SessionRecord) error {
	if err := d.repo.Create(r.Context(), rec); err != nil {
		return err
	}

	sess, _ := d.cookies.New(r, SessionCookieName)
	sess.Values[keySessionID] = rec.ID
	return sess.Save(r, w)
}

func (d *DBSessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := d.cookies.Get(r, SessionCookieName)
	if err == nil {
		if id, ok := sess.Values[keySessionID].(string); ok && id != "" {
			if err := d.repo.Delete(r.Context(), id); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
				return err
			}
		}
	}

	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// SweepExpired removes expired rows from a database-backed store. The
// cookie store has nothing to sweep; the guard clears stale cookies on
// page load instead.
func (d *DBSessionStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return d.repo.DeleteExpired(ctx, now)
}
