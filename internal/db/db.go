// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

//go:embed seed/*.sql
var seeds embed.FS

const migrationsDir = "migrations"

// Open connects to Postgres and pings it. An empty dsn yields a
// ConfigurationError and no connection attempt.
func Open(ctx context.Context, dsn string, log zerolog.Logger) (*sql.DB, error) {
	if dsn == "" {
		return nil, appErrors.NewConfigurationError("DATABASE_URL")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Msg("connected to database")
	return conn, nil
}

// Migrate runs an embedded goose command: up, down or status.
func Migrate(conn *sql.DB, command string) error {
	if conn == nil {
		return appErrors.NewConfigurationError("DATABASE_URL")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(conn, migrationsDir)
	case "down":
		return goose.Down(conn, migrationsDir)
	case "status":
		return goose.Status(conn, migrationsDir)
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}
}

// Seed executes the embedded sample data files in name order and returns their names.
func Seed(ctx context.Context, conn *sql.DB) ([]string, error) {
	if conn == nil {
		return nil, appErrors.NewConfigurationError("DATABASE_URL")
	}
	files, err := fs.Glob(seeds, "seed/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	applied := make([]string, 0, len(files))
	for _, file := range files {
		content, err := seeds.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", file, err)
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return applied, fmt.Errorf("execute %s: %w", file, err)
		}
		applied = append(applied, file)
	}
	return applied, nil
}
