package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ReplaceLocalContext atomically replaces the entire local_context table
// with the scanner's latest output: the out-of-scope local scanner always
// produces a full snapshot, never an incremental patch, so a stale row
// from a previous scan must never survive alongside fresh ones.
func (s *Store) ReplaceLocalContext(ctx context.Context, rows []models.LocalContextRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_context`); err != nil {
		return fmt.Errorf("clear local context: %w", err)
	}

	now := nowString()
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO local_context (id, category, key, value, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), row.Category, row.Key, row.Value, now, now); err != nil {
			return fmt.Errorf("insert local context row: %w", err)
		}
	}

	return tx.Commit()
}

// GetLocalContext returns every row currently stored, grouped by nothing
// in particular: callers group by Category as needed.
func (s *Store) GetLocalContext(ctx context.Context) ([]models.LocalContextRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, key, value, created_at, updated_at FROM local_context ORDER BY category, key`)
	if err != nil {
		return nil, fmt.Errorf("get local context: %w", err)
	}
	defer rows.Close()

	var out []models.LocalContextRow
	for rows.Next() {
		var row models.LocalContextRow
		var createdAt, updatedAt string
		if err := rows.Scan(&row.Category, &row.Key, &row.Value, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan local context row: %w", err)
		}
		row.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		row.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, row)
	}
	return out, rows.Err()
}
