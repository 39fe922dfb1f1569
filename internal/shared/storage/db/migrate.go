package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// Direction selects which goose command Migrate runs.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// RunMigrations brings audit_sessions to the latest schema. A nil database is a
// no-op so in-memory runs can share the bootstrap path.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, Up)
}

// Migrate runs the embedded goose migrations in the given direction.
func Migrate(ctx context.Context, database *sql.DB, dir Direction) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch dir {
	case Up:
		return goose.UpContext(ctx, database, migrationsDir)
	case Down:
		return goose.DownContext(ctx, database, migrationsDir)
	case Status:
		return goose.StatusContext(ctx, database, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
}

// SchemaVersion reports the applied goose version.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
