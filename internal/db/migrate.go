// ABOUTME: Embedded goose migrations for the resume store
// ABOUTME: Applied on startup; goose output is routed through the logger

package db

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/harper/resumedeck/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Debug(strings.TrimSpace(format), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(strings.TrimSpace(format), v...)
}

// Migrate applies all pending migrations.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{log: logger.Named("migrate")})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.conn, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
