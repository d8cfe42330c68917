package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// SaveScanCache upserts a TTL'd scan observation for a host, keyed by
// (host, scan_type). A later call for the same key replaces the data and
// resets the expiry rather than accumulating a history.
func (s *Store) SaveScanCache(ctx context.Context, hostname, scanType string, data map[string]any, ttlSeconds int) error {
	hostname = strings.ToLower(strings.TrimSpace(hostname))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	hostID, err := s.hostIDByHostnameTx(ctx, tx, hostname)
	if err != nil {
		return apperrors.NewPersistenceError("save_scan_cache", "host not found", map[string]any{"hostname": hostname}, apperrors.ErrNotFound)
	}

	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339Nano)
	expiresStr := now.Add(time.Duration(ttlSeconds) * time.Second).Format(time.RFC3339Nano)
	dataJSON, err := marshalJSON(data)
	if err != nil {
		return fmt.Errorf("marshal scan data: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_cache (id, host_id, scan_type, data, ttl_seconds, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host_id, scan_type) DO UPDATE SET
			data = excluded.data,
			ttl_seconds = excluded.ttl_seconds,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, newID(), hostID, scanType, dataJSON, ttlSeconds, nowStr, expiresStr)
	if err != nil {
		return fmt.Errorf("upsert scan cache: %w", err)
	}

	return tx.Commit()
}

// GetScanCache returns the cached entry for (hostname, scanType) if it
// exists and has not expired. An expired entry is treated as a miss, not
// deleted eagerly — CleanupExpiredScans owns reclamation.
func (s *Store) GetScanCache(ctx context.Context, hostname, scanType string) (*models.ScanCacheEntry, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))

	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.host_id, c.scan_type, c.data, c.ttl_seconds, c.created_at, c.expires_at
		FROM scan_cache c
		JOIN hosts_v2 h ON h.id = c.host_id
		WHERE h.hostname = ? AND c.scan_type = ?
	`, hostname, scanType)

	var (
		entry                models.ScanCacheEntry
		dataJSON             string
		createdAt, expiresAt string
	)
	if err := row.Scan(&entry.ID, &entry.HostID, &entry.ScanType, &dataJSON, &entry.TTLSeconds, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewPersistenceError("get_scan_cache", "not found", map[string]any{"hostname": hostname, "scan_type": scanType}, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get scan cache: %w", err)
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entry.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
	_ = unmarshalJSONOr(dataJSON, &entry.Data, "{}")

	if entry.Expired(time.Now().UTC()) {
		return nil, apperrors.NewPersistenceError("get_scan_cache", "expired", map[string]any{"hostname": hostname, "scan_type": scanType}, apperrors.ErrNotFound)
	}
	return &entry, nil
}

// CleanupExpiredScans deletes every scan_cache row whose expiry has
// passed and returns how many rows were removed.
func (s *Store) CleanupExpiredScans(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `DELETE FROM scan_cache WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired scans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
