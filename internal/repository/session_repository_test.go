package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"season-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func newTestSession(expiresAt time.Time) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:        uuid.NewString(),
		Token:     "header.payload.signature",
		UserID:    "u1",
		Email:     "admin@season.dev",
		Role:      domain.RoleAdmin,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func TestSessionRepository_CreateAndFind(t *testing.T) {
	repo := NewSessionRepository(testDB)
	ctx := context.Background()

	rec := newTestSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, rec))

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
	assert.Equal(t, rec.Token, found.Token)
	assert.Equal(t, rec.UserID, found.UserID)
	assert.Equal(t, rec.Email, found.Email)
	assert.Equal(t, rec.Role, found.Role)
	assert.WithinDuration(t, rec.ExpiresAt, found.ExpiresAt, time.Second)
}

func TestSessionRepository_FindMissing(t *testing.T) {
	repo := NewSessionRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewSessionRepository(testDB)
	ctx := context.Background()

	rec := newTestSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, rec))

	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err := repo.FindByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo := NewSessionRepository(testDB)
	ctx := context.Background()

	live := newTestSession(time.Now().Add(time.Hour))
	stale := newTestSession(time.Now().Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	removed, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))

	_, err = repo.FindByID(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = repo.FindByID(ctx, live.ID)
	assert.NoError(t, err)
}
