package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"season-admin/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNotAuthorized  = errors.New("account is not authorized for the dashboard")
	ErrMalformedToken = errors.New("malformed session token")
)

// TokenClaims is the payload the upstream auth service embeds in its
// tokens. The role travels in the "profile" claim.
type TokenClaims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Profile string `json:"profile"`
	jwt.RegisteredClaims
}

// DecodeToken decodes the token payload without verifying the signature.
// The upstream service owns the signing key; the gateway only needs the
// claims. Garbage input returns ErrMalformedToken instead of faulting.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry claim", ErrMalformedToken)
	}
	return claims, nil
}

// GuardDecision is the outcome of the page-load session check.
type GuardDecision struct {
	Authenticated bool
	RedirectTo    string
	ClearSession  bool
}

// CheckSession is the session guard: given the stored record (nil when
// absent) and the current time, decide whether the caller is signed in.
// A valid token redirects to the dashboard root with no storage
// mutation; an expired or undecodable one asks for the session to be
// cleared. Pure so it can be tested without any store.
func CheckSession(rec *domain.SessionRecord, now time.Time) GuardDecision {
	if rec == nil || rec.Token == "" {
		return GuardDecision{}
	}

	claims, err := DecodeToken(rec.Token)
	if err != nil {
		return GuardDecision{ClearSession: true}
	}
	if !claims.ExpiresAt.After(now) {
		return GuardDecision{ClearSession: true}
	}

	return GuardDecision{Authenticated: true, RedirectTo: "/"}
}

// LoginClient is the slice of the backend client the authenticator uses.
type LoginClient interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// SessionService signs admins in against the upstream auth endpoint.
// It never persists anything itself; the transport layer saves the
// returned record only on success.
type SessionService struct {
	client LoginClient
}

// NewSessionService creates an authenticator around the given client.
func NewSessionService(client LoginClient) *SessionService {
	return &SessionService{client: client}
}

// SignIn exchanges credentials for a token, decodes it, and gates on the
// Admin role. A non-admin profile yields ErrNotAuthorized and no record.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*domain.SessionRecord, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	claims, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}

	if claims.Profile != domain.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	return &domain.SessionRecord{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Profile,
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: time.Now(),
	}, nil
}
