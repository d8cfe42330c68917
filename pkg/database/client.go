// Package database opens and migrates Athena's single embedded relational
// file and wraps it with the connection-pool and health-check conventions
// the core repository layers (pkg/inventory, pkg/conversation) build on.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver
)

//go:embed migrations
var migrationsFS embed.FS

// Config configures the connection to Athena's single embedded database
// file. There is no host/port/credential set to configure: spec.md §4.1
// requires the entire inventory store to live in one relational file.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	BusyTimeout     time.Duration
}

// Client wraps a *sql.DB bound to the single embedded database file.
type Client struct {
	db   *sql.DB
	path string
}

// DB returns the underlying connection pool for direct queries and health
// checks.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Path returns the file path the client was opened against ("" for
// in-memory test databases).
func (c *Client) Path() string {
	return c.path
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// NewClient opens the embedded database file, applies pragmas, runs
// pending migrations, and returns a ready-to-use client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	if cfg.Path == ":memory:" {
		dsn = "file::memory:?cache=shared&_pragma=busy_timeout(" + fmt.Sprint(cfg.BusyTimeout.Milliseconds()) + ")"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Foreign-key enforcement is off by default per connection in SQLite;
	// spec.md §5 requires it on for every mutation.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Client{db: db, path: cfg.Path}, nil
}

// NewClientFromDB wraps an already-open *sql.DB (used by tests that want
// to construct the pool themselves, e.g. with a shared in-memory DSN).
func NewClientFromDB(db *sql.DB, path string) *Client {
	return &Client{db: db, path: path}
}
