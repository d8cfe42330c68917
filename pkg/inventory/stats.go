package inventory

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// GetStats aggregates the inventory's current shape: host totals by
// environment and source, relation counts, and how many scan_cache rows
// are currently live (not yet expired).
func (s *Store) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		ByEnvironment: map[string]int{},
		BySource:      map[string]int{},
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hosts_v2`).Scan(&stats.TotalHosts); err != nil {
		return nil, fmt.Errorf("count hosts: %w", err)
	}

	envRows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(environment, 'unknown'), COUNT(*) FROM hosts_v2 GROUP BY environment`)
	if err != nil {
		return nil, fmt.Errorf("count by environment: %w", err)
	}
	defer envRows.Close()
	for envRows.Next() {
		var env string
		var count int
		if err := envRows.Scan(&env, &count); err != nil {
			return nil, fmt.Errorf("scan environment count: %w", err)
		}
		stats.ByEnvironment[env] = count
	}
	if err := envRows.Err(); err != nil {
		return nil, err
	}

	sourceRows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(src.name, 'manual'), COUNT(*) FROM hosts_v2 h
		LEFT JOIN inventory_sources src ON src.id = h.source_id
		GROUP BY src.name`)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var name string
		var count int
		if err := sourceRows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		stats.BySource[name] = count
	}
	if err := sourceRows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM host_relations`).Scan(&stats.TotalRelations); err != nil {
		return nil, fmt.Errorf("count relations: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM host_relations WHERE validated_by_user = 1`).Scan(&stats.ValidatedRelations); err != nil {
		return nil, fmt.Errorf("count validated relations: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_cache WHERE expires_at > ?`, nowString()).Scan(&stats.CachedScans); err != nil {
		return nil, fmt.Errorf("count cached scans: %w", err)
	}

	return stats, nil
}
