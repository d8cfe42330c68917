package database

import (
	"context"
	"database/sql"
	"time"
)

// HealthStatus represents database health, connection pool statistics, and
// the migration state of Athena's single embedded database file.
type HealthStatus struct {
	Status            string        `json:"status"`
	ResponseTime      time.Duration `json:"response_time_ms"`
	OpenConnections   int           `json:"open_connections"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration_ms"`
	MaxOpenConns      int           `json:"max_open_conns"`
	MigrationsApplied int           `json:"migrations_applied"`
	LatestMigration   string        `json:"latest_migration,omitempty"`
}

// Health checks database connectivity and returns connection pool
// statistics alongside how many embedded migrations have been applied to
// this file, so a stale or half-migrated database shows up in the same
// response as a dropped connection would.
func Health(ctx context.Context, db *sql.DB) (*HealthStatus, error) {
	start := time.Now()

	if err := db.PingContext(ctx); err != nil {
		return &HealthStatus{
			Status:       "unhealthy",
			ResponseTime: time.Since(start),
		}, err
	}

	stats := db.Stats()
	status := &HealthStatus{
		Status:          "healthy",
		ResponseTime:    time.Since(start),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration,
		MaxOpenConns:    stats.MaxOpenConnections,
	}

	applied, latest, err := appliedMigrations(ctx, db)
	if err != nil {
		// schema_migrations not existing yet (a brand-new, pre-NewClient
		// connection) shouldn't fail an otherwise-healthy ping.
		return status, nil
	}
	status.MigrationsApplied = applied
	status.LatestMigration = latest
	return status, nil
}

// appliedMigrations reports how many embedded migrations schema_migrations
// records as applied, and the name of the most recently applied one.
func appliedMigrations(ctx context.Context, db *sql.DB) (int, string, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		return 0, "", err
	}
	if count == 0 {
		return 0, "", nil
	}
	var latest string
	if err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&latest); err != nil {
		return 0, "", err
	}
	return count, latest, nil
}
