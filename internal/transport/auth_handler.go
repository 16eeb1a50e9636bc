package transport

import (
	"errors"
	"net/http"
	"time"

	"season-admin/internal/backend"
	"season-admin/internal/middleware"
	"season-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Fixed UI delays inherited from the old dashboard. They are
// returned as hints; the gateway never sleeps on them.
const (
	redirectAfterMs = 2000
	reloadAfterMs   = 3000
)

// LoginRequest represents the sign-in request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful admin sign-in.
type LoginResponse struct {
	Notice          *Notice     `json:"notice"`
	RedirectTo      string      `json:"redirectTo"`
	RedirectAfterMs int         `json:"redirectAfterMs"`
	User            UserProfile `json:"user"`
}

// UserProfile is the identity decoded from the upstream token.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionResponse is the page-load guard result.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	RedirectTo    string       `json:"redirectTo,omitempty"`
	User          *UserProfile `json:"user,omitempty"`
}

// AuthHandler handles sign-in, sign-out and the session guard.
type AuthHandler struct {
	auth   *service.SessionService
	store  service.SessionStore
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.SessionService, store service.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, store: store, logger: logger}
}

// RegisterRoutes registers the auth routes. loginLimiter wraps only the
// login endpoint; pass nil to disable throttling.
func (h *AuthHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
	})
}

// Login proxies the credentials upstream, gates on the Admin role, and
// persists the session only when the role matches.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondLoginFailure(w, err)
		return
	}

	if err := h.store.Save(w, r, rec); err != nil {
		h.logger.Error("Failed to persist session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	h.logger.Info("Admin signed in", zap.String("user_id", rec.UserID))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Notice:          successNotice(msgLoginSuccess),
		RedirectTo:      "/",
		RedirectAfterMs: redirectAfterMs,
		User:            UserProfile{ID: rec.UserID, Email: rec.Email, Role: rec.Role},
	})
}

func (h *AuthHandler) respondLoginFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotAuthorized) {
		h.logger.Warn("Sign-in with a non-admin profile rejected")
		middleware.RespondWithJSON(w, http.StatusForbidden, map[string]interface{}{
			"notice":        errorNotice(msgNotAuthorized),
			"reloadAfterMs": reloadAfterMs,
		})
		return
	}

	// Surface the upstream-provided message when there is one; fall
	// back to the generic string otherwise. No token is ever persisted
	// on this path.
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = msgGenericFailure
		}
		status := apiErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		h.logger.Debug("Upstream login failed", zap.Int("status", apiErr.StatusCode))
		middleware.RespondWithJSON(w, status, map[string]interface{}{
			"notice": errorNotice(message),
		})
		return
	}

	h.logger.Error("Login failed", zap.Error(err))
	middleware.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
		"notice": errorNotice(msgGenericFailure),
	})
}

// Logout clears the session unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Session is the page-load session guard: valid sessions are told to
// head to the dashboard root; expired or undecodable ones are cleared.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Load(r)
	if err != nil {
		h.logger.Error("Failed to load session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	decision := service.CheckSession(rec, time.Now())
	if decision.ClearSession {
		if err := h.store.Clear(w, r); err != nil {
			h.logger.Error("Failed to clear stale session", zap.Error(err))
		}
	}

	resp := SessionResponse{
		Authenticated: decision.Authenticated,
		RedirectTo:    decision.RedirectTo,
	}
	if decision.Authenticated {
		resp.User = &UserProfile{ID: rec.UserID, Email: rec.Email, Role: rec.Role}
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}
