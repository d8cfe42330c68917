package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// AddRelation upserts a single relation between two already-known hosts,
// keyed by hostname. Symmetric types (cluster_member, load_balanced) are
// canonicalized to a stable (min, max) hostname order before the write so
// (a, b, t) and (b, a, t) collapse onto the same row.
func (s *Store) AddRelation(ctx context.Context, source, target string, relType models.RelationType, confidence float64, validated bool, metadata map[string]any) (string, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	target = strings.ToLower(strings.TrimSpace(target))

	if relType.Symmetric() && target < source {
		source, target = target, source
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sourceID, err := s.hostIDByHostnameTx(ctx, tx, source)
	if err != nil {
		return "", err
	}
	targetID, err := s.hostIDByHostnameTx(ctx, tx, target)
	if err != nil {
		return "", err
	}

	id := newID()
	now := nowString()
	metadataJSON, _ := marshalJSON(metadata)

	row := tx.QueryRowContext(ctx, `
		INSERT INTO host_relations (id, source_host_id, target_host_id, relation_type, confidence, validated_by_user, metadata, created_at, updated_at)
		VALUES (:id, :source_id, :target_id, :rel_type, :confidence, :validated, COALESCE(:metadata, '{}'), :now, :now)
		ON CONFLICT(source_host_id, target_host_id, relation_type) DO UPDATE SET
			confidence = MAX(host_relations.confidence, :confidence),
			validated_by_user = host_relations.validated_by_user OR :validated,
			metadata = COALESCE(:metadata, host_relations.metadata),
			updated_at = :now
		RETURNING id
	`,
		sql.Named("id", id),
		sql.Named("source_id", sourceID),
		sql.Named("target_id", targetID),
		sql.Named("rel_type", string(relType)),
		sql.Named("confidence", confidence),
		sql.Named("validated", validated),
		sql.Named("metadata", nullableJSON(metadataJSON, metadata != nil)),
		sql.Named("now", now),
	)

	var returnedID string
	if err := row.Scan(&returnedID); err != nil {
		return "", fmt.Errorf("upsert relation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	s.notifyRelationChanged(ctx, returnedID)
	return returnedID, nil
}

func (s *Store) hostIDByHostnameTx(ctx context.Context, tx *sql.Tx, hostname string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM hosts_v2 WHERE hostname = ?`, hostname).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("host %q not found", hostname)
		}
		return "", err
	}
	return id, nil
}

// BulkAddRelations applies every suggestion it can resolve and reports the
// rest as skips rather than failing the whole batch: an unresolved
// hostname in a relation-discovery sweep is an expected outcome, not a
// caller error, unlike BulkAddHosts's all-or-nothing contract.
func (s *Store) BulkAddRelations(ctx context.Context, suggestions []models.RelationSuggestion) (added int, skipped []models.RelationSkip, err error) {
	for _, sug := range suggestions {
		_, addErr := s.AddRelation(ctx, sug.Source, sug.Target, sug.Type, sug.Confidence, false, map[string]any{"reason": sug.Reason})
		if addErr != nil {
			skipped = append(skipped, models.RelationSkip{
				Source: sug.Source, Target: sug.Target, Type: sug.Type, Reason: addErr.Error(),
			})
			continue
		}
		added++
	}
	return added, skipped, nil
}

// ListRelationsForHost returns every relation touching the named host,
// whichever side it sits on.
func (s *Store) ListRelationsForHost(ctx context.Context, hostname string) ([]*models.HostRelation, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source_host_id, r.target_host_id, r.relation_type, r.confidence,
		       r.validated_by_user, r.metadata, r.created_at, r.updated_at
		FROM host_relations r
		JOIN hosts_v2 h ON h.id = r.source_host_id OR h.id = r.target_host_id
		WHERE h.hostname = ?
		ORDER BY r.created_at
	`, hostname)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	var out []*models.HostRelation
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func scanRelation(row interface {
	Scan(dest ...any) error
}) (*models.HostRelation, error) {
	var (
		rel                  models.HostRelation
		relType              string
		metadataJSON         string
		validated            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&rel.ID, &rel.SourceHostID, &rel.TargetHostID, &relType, &rel.Confidence,
		&validated, &metadataJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rel.RelationType = models.RelationType(relType)
	rel.ValidatedByUser = validated != 0
	rel.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rel.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	_ = unmarshalJSONOr(metadataJSON, &rel.Metadata, "{}")
	return &rel, nil
}
