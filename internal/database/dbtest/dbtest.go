// Package dbtest starts a disposable PostgreSQL for store integration tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
)

// TestDB manages a PostgreSQL testcontainer and the pool connected to it
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	DB         *database.DB
}

// Setup starts a PostgreSQL container and applies the embedded migrations
func Setup(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("wikiboard"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))

	goose.SetLogger(log.New(io.Discard, "", 0))
	if err := db.Migrate(ctx, "up"); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestDB{Container: container, ConnString: connStr, DB: db}, nil
}

// Teardown stops the container and closes the connection pool
func (t *TestDB) Teardown(ctx context.Context) error {
	if t.DB != nil {
		t.DB.Pool.Close()
	}
	if t.Container != nil {
		return t.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (t *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"audit_logs",
		"likes",
		"comments",
		"content_reports",
		"user_images",
		"wiki_entries",
		"users",
	}

	for _, table := range tables {
		if _, err := t.DB.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// SeedUser inserts a user with the given id and role
func (t *TestDB) SeedUser(ctx context.Context, id, role string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, name, role, is_admin)
		VALUES ($1, $2, $3, $4, $4 = 'admin')
		RETURNING id, email, name, role, is_admin, created_at, updated_at
	`

	var user models.User
	err := t.DB.Pool.QueryRow(ctx, query, id, id+"@example.com", "user "+id, role).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedEntry inserts an entry owned by userID with the given status
func (t *TestDB) SeedEntry(ctx context.Context, userID string, status models.EntryStatus) (string, error) {
	query := `
		INSERT INTO wiki_entries (user_id, title, description, status)
		VALUES ($1, 'seeded entry', 'seeded description', $2)
		RETURNING id
	`

	var id string
	if err := t.DB.Pool.QueryRow(ctx, query, userID, string(status)).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}

	return id, nil
}
