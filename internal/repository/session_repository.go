package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"season-admin/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository defines the interface for server-side session storage.
type SessionRepository interface {
	Create(ctx context.Context, rec *domain.SessionRecord) error
	FindByID(ctx context.Context, id string) (*domain.SessionRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row using parameterized queries.
func (r *sessionRepository) Create(ctx context.Context, rec *domain.SessionRecord) error {
	query := `
		INSERT INTO sessions (id, token, user_id, email, role, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.Token,
		rec.UserID,
		rec.Email,
		rec.Role,
		rec.ExpiresAt,
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindByID retrieves a session by ID using parameterized queries.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	query := `
		SELECT id, token, user_id, email, role, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`

	rec := &domain.SessionRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Token,
		&rec.UserID,
		&rec.Email,
		&rec.Role,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}

	return rec, nil
}

// Delete removes a session row.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteExpired removes every session whose expiry is at or before now
// and returns the number of rows removed.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
