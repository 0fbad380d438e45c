package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate runs goose in the given direction ("up", "down" or "status") against
// the embedded migrations, using a database/sql bridge over the pool config.
func (db *DB) Migrate(ctx context.Context, direction string) error {
	sqlDB := stdlib.OpenDB(*db.Pool.Config().ConnConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch direction {
	case "up":
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	if db.logger != nil {
		db.logger.Info("migrations applied", slog.String("direction", direction))
	}
	return nil
}
