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

type snapshotPayload struct {
	Hosts     []models.Host         `json:"hosts"`
	Relations []models.HostRelation `json:"relations"`
}

// CreateSnapshot captures every current host and relation into one
// immutable row. Snapshots are never updated in place: a later export
// with the same name is a distinct row with a new ID.
func (s *Store) CreateSnapshot(ctx context.Context, name, description string) (string, error) {
	hosts, err := s.SearchHosts(ctx, SearchHostsInput{})
	if err != nil {
		return "", fmt.Errorf("collect hosts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_host_id, target_host_id, relation_type, confidence, validated_by_user, metadata, created_at, updated_at
		FROM host_relations ORDER BY created_at`)
	if err != nil {
		return "", fmt.Errorf("collect relations: %w", err)
	}
	defer rows.Close()

	var relations []models.HostRelation
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return "", fmt.Errorf("scan relation: %w", err)
		}
		relations = append(relations, *rel)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	payload := snapshotPayload{Relations: relations}
	for _, h := range hosts {
		payload.Hosts = append(payload.Hosts, *h)
	}
	payloadJSON, err := marshalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	id := newID()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_snapshots (id, name, description, host_count, snapshot_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, description, len(hosts), payloadJSON, nowString()); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns every snapshot's metadata (never the full
// payload) in descending creation order.
func (s *Store) ListSnapshots(ctx context.Context) ([]*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, host_count, created_at FROM inventory_snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		var description sql.NullString
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.Name, &description, &snap.HostCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Description = description.String
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &snap)
	}
	return out, rows.Err()
}

// GetSnapshot returns one snapshot's full payload (hosts and relations as
// they stood at capture time).
func (s *Store) GetSnapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description, host_count, snapshot_data, created_at FROM inventory_snapshots WHERE id = ?`, id)

	var (
		snap                 models.Snapshot
		description          sql.NullString
		payloadJSON          string
		createdAt            string
	)
	if err := row.Scan(&snap.ID, &snap.Name, &description, &snap.HostCount, &payloadJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewPersistenceError("get_snapshot", "not found", map[string]any{"id": id}, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.Description = description.String
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	var payload snapshotPayload
	if err := unmarshalJSONOr(payloadJSON, &payload, "{}"); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot payload: %w", err)
	}
	snap.Hosts = payload.Hosts
	snap.Relations = payload.Relations
	return &snap, nil
}

// DeleteSnapshot removes a captured export. Deleting a snapshot never
// touches the live hosts/relations it was taken from.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NewPersistenceError("delete_snapshot", "not found", map[string]any{"id": id}, apperrors.ErrNotFound)
	}
	return nil
}
