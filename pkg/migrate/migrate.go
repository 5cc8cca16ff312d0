package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where SQL migrations live relative to the repo root.
const DefaultDir = "migrations"

// Run executes the named goose command against the provided database.
func Run(ctx context.Context, db *sql.DB, dir, command string) error {
	if db == nil {
		return fmt.Errorf("database handle required")
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}
}
