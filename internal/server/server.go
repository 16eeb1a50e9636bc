package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"season-admin/internal/backend"
	"season-admin/internal/config"
	custommiddleware "season-admin/internal/middleware"
	"season-admin/internal/repository"
	"season-admin/internal/service"
	"season-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        *sql.DB
	sweepStop chan struct{}
}

// NewServer wires the gateway together. db may be nil when the cookie
// session backend is configured; redisClient may be nil to disable
// login throttling.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Upstream client: the gateway owns no product or order data.
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	sessionStore := newSessionStore(cfg, db, logger)
	authService := service.NewSessionService(client)
	gate := service.NewConfirmationGate(cfg.Session.ConfirmTTL)

	authMiddleware := custommiddleware.SessionAuthMiddleware(sessionStore, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	adminOnly := func(next http.Handler) http.Handler {
		return authMiddleware(adminMiddleware(next))
	}

	var loginLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.Redis.LoginLimit,
			Window:            cfg.Redis.LoginWindow,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	}

	authHandler := transport.NewAuthHandler(authService, sessionStore, logger)
	productHandler := transport.NewProductHandler(client, gate, cfg.Session.MaxImageDim, logger)
	orderHandler := transport.NewOrderHandler(client, logger)

	authHandler.RegisterRoutes(router, loginLimiter)
	productHandler.RegisterRoutes(router, adminOnly)
	orderHandler.RegisterRoutes(router, adminOnly)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		sweepStop: make(chan struct{}),
	}

	if dbStore, ok := sessionStore.(*service.DBSessionStore); ok {
		go server.sweepSessions(dbStore)
	}

	return server
}

// sweepSessions periodically removes expired session rows. Cookie-backed
// sessions need no sweeping; the guard clears stale cookies on page load.
func (s *Server) sweepSessions(store *service.DBSessionStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := store.SweepExpired(context.Background(), time.Now())
			if err != nil {
				s.logger.Error("Failed to sweep expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("Swept expired sessions", zap.Int64("removed", removed))
			}
		case <-s.sweepStop:
			return
		}
	}
}

func newSessionStore(cfg *config.Config, db *sql.DB, logger *zap.Logger) service.SessionStore {
	authKey := []byte(cfg.Session.AuthKey)
	if len(authKey) == 0 {
		logger.Warn("SESSION_AUTH_KEY not set; generating a random key, sessions will not survive restarts")
		authKey = make([]byte, 32)
		rand.Read(authKey)
	}

	if cfg.Session.Backend == "postgres" && db != nil {
		repo := repository.NewSessionRepository(db)
		return service.NewDBSessionStore(repo, cfg.Session.CookieSecure, authKey)
	}
	return service.NewCookieSessionStore(cfg.Session.CookieSecure, authKey)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	close(s.sweepStop)

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
