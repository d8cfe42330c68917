package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// CreateSource registers an import batch (a parsed file, a local scan, a
// manual entry) so hosts can be traced back to where they came from.
func (s *Store) CreateSource(ctx context.Context, name, sourceType, filePath, importMethod string, metadata map[string]any) (string, error) {
	id := newID()
	now := nowString()
	metadataJSON := "{}"
	if metadata != nil {
		encoded, err := marshalJSON(metadata)
		if err != nil {
			return "", fmt.Errorf("marshal metadata: %w", err)
		}
		metadataJSON = encoded
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_sources (id, name, source_type, file_path, import_method, host_count, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		id, name, sourceType, filePath, importMethod, metadataJSON, now, now)
	if err != nil {
		if isConstraintErr(err) {
			return "", apperrors.NewPersistenceError("create_source", "name already exists", map[string]any{"name": name}, apperrors.ErrAlreadyExists)
		}
		return "", fmt.Errorf("insert source: %w", err)
	}
	return id, nil
}

// UpdateSourceHostCount is called after a bulk import completes so the
// source row reflects how many hosts it actually contributed.
func (s *Store) UpdateSourceHostCount(ctx context.Context, sourceID string, count int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE inventory_sources SET host_count = ?, updated_at = ? WHERE id = ?`, count, nowString(), sourceID)
	if err != nil {
		return fmt.Errorf("update source host count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NewPersistenceError("update_source_host_count", "not found", map[string]any{"id": sourceID}, apperrors.ErrNotFound)
	}
	return nil
}

// ListSources returns every registered inventory source.
func (s *Store) ListSources(ctx context.Context) ([]*models.InventorySource, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, source_type, file_path, import_method, host_count, metadata, created_at, updated_at FROM inventory_sources ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []*models.InventorySource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// DeleteSource removes a source and cascades to the hosts it
// contributed, via hosts_v2.source_id's ON DELETE CASCADE.
func (s *Store) DeleteSource(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NewPersistenceError("delete_source", "not found", map[string]any{"id": id}, apperrors.ErrNotFound)
	}
	return nil
}

func scanSource(row interface {
	Scan(dest ...any) error
}) (*models.InventorySource, error) {
	var (
		src                  models.InventorySource
		filePath             sql.NullString
		importMethod         sql.NullString
		metadataJSON         string
		createdAt, updatedAt string
	)
	if err := row.Scan(&src.ID, &src.Name, &src.SourceType, &filePath, &importMethod, &src.HostCount, &metadataJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewPersistenceError("get_source", "not found", nil, apperrors.ErrNotFound)
		}
		return nil, err
	}
	src.FilePath = filePath.String
	src.ImportMethod = importMethod.String
	src.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	src.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	_ = unmarshalJSONOr(metadataJSON, &src.Metadata, "{}")
	return &src, nil
}
