package middleware

import (
	"context"
	"net/http"
	"time"

	"season-admin/internal/domain"
	"season-admin/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

// SessionAuthMiddleware loads the session record, runs the guard check,
// and rejects requests without a live admin session. Expired or
// undecodable sessions are cleared from the store before the 401 goes
// out, mirroring the page-load guard.
func SessionAuthMiddleware(store service.SessionStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := store.Load(r)
			if err != nil {
				logger.Error("Failed to load session", zap.Error(err))
				RespondWithError(w, http.StatusInternalServerError, "failed to load session")
				return
			}

			decision := service.CheckSession(rec, time.Now())
			if decision.ClearSession {
				if err := store.Clear(w, r); err != nil {
					logger.Error("Failed to clear stale session", zap.Error(err))
				}
			}
			if !decision.Authenticated {
				logger.Debug("Request without a live session",
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusUnauthorized, "session expired or missing")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, rec.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, rec.Email)
			ctx = context.WithValue(ctx, UserRoleKey, rec.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from the request context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserEmail extracts the user email from the request context.
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetUserRole extracts the user role from the request context.
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// RequireAdmin ensures the session role is the privileged one. Today the
// guard only admits admins, so this is a second line of defense.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if role != domain.RoleAdmin {
				logger.Warn("Non-admin session reached an admin endpoint",
					zap.String("role", role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
