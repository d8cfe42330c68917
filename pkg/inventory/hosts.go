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

// AddHost performs the atomic upsert spec.md §4.1 requires: on first
// write it emits a HostVersion with action "created"; on subsequent
// writes it merges only the non-nil fields of patch into the existing
// row and emits a HostVersion diff of the fields that actually changed.
// The prior row is read inside the same transaction before the upsert
// runs, since an UPSERT's RETURNING clause reports post-update values
// in SQLite — diffing against it would otherwise always compare a
// field's new value against itself.
func (s *Store) AddHost(ctx context.Context, patch models.HostPatch) (hostID string, err error) {
	if patch.Hostname == "" {
		return "", apperrors.NewPersistenceError("add_host", "hostname is required", nil, apperrors.ErrNotFound)
	}
	hostname := strings.ToLower(strings.TrimSpace(patch.Hostname))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	before, existedBefore, err := queryHostSnapshot(ctx, tx, hostname)
	if err != nil {
		return "", fmt.Errorf("read prior host state: %w", err)
	}

	id := newID()
	now := nowString()

	aliasesJSON, _ := marshalJSON(derefOr(patch.Aliases, []string{}))
	groupsJSON, _ := marshalJSON(derefOr(patch.Groups, []string{}))
	metadataJSON, _ := marshalJSON(patch.Metadata)

	row := tx.QueryRowContext(ctx, `
		INSERT INTO hosts_v2 (
			id, hostname, ip_address, aliases, environment, groups, role, service,
			ssh_port, status, source_id, metadata, created_at, updated_at
		) VALUES (
			:id, :hostname, :ip_address, COALESCE(:aliases, '[]'), :environment,
			COALESCE(:groups, '[]'), :role, :service, COALESCE(:ssh_port, 22),
			COALESCE(:status, 'unknown'), :source_id, COALESCE(:metadata, '{}'), :now, :now
		)
		ON CONFLICT(hostname) DO UPDATE SET
			ip_address = COALESCE(:ip_address, hosts_v2.ip_address),
			aliases    = COALESCE(:aliases, hosts_v2.aliases),
			environment = COALESCE(:environment, hosts_v2.environment),
			groups     = COALESCE(:groups, hosts_v2.groups),
			role       = COALESCE(:role, hosts_v2.role),
			service    = COALESCE(:service, hosts_v2.service),
			ssh_port   = COALESCE(:ssh_port, hosts_v2.ssh_port),
			status     = COALESCE(:status, hosts_v2.status),
			source_id  = COALESCE(:source_id, hosts_v2.source_id),
			metadata   = COALESCE(:metadata, hosts_v2.metadata),
			updated_at = :now
		RETURNING id
	`,
		sql.Named("id", id),
		sql.Named("hostname", hostname),
		sql.Named("ip_address", patch.IP),
		sql.Named("aliases", nullableJSON(aliasesJSON, patch.Aliases != nil)),
		sql.Named("environment", patch.Environment),
		sql.Named("groups", nullableJSON(groupsJSON, patch.Groups != nil)),
		sql.Named("role", patch.Role),
		sql.Named("service", patch.Service),
		sql.Named("ssh_port", patch.SSHPort),
		sql.Named("status", nullableStatus(patch.Status)),
		sql.Named("source_id", patch.SourceID),
		sql.Named("metadata", nullableJSON(metadataJSON, patch.Metadata != nil)),
		sql.Named("now", now),
	)

	var returnedID string
	if err := row.Scan(&returnedID); err != nil {
		if isConstraintErr(err) {
			return "", apperrors.NewPersistenceError("add_host", "constraint violation", map[string]any{"hostname": hostname}, err)
		}
		return "", fmt.Errorf("upsert host: %w", err)
	}

	if _, _, err := s.recordHostVersion(ctx, tx, returnedID, existedBefore, patch, before, now); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	s.notifyHostChanged(ctx, returnedID, hostname)
	return returnedID, nil
}

type hostVersionSnapshot struct {
	IP, Environment, Role, Service, SourceID, Aliases, Groups, Metadata sql.NullString
	SSHPort                                                             int
	Status                                                              string
}

// queryHostSnapshot reads the current row for hostname, if any, before the
// upsert runs. SQLite's RETURNING on an INSERT ... ON CONFLICT DO UPDATE
// reports post-update values, so the only way to recover the true prior
// value for a version diff is to read it separately, inside the same
// transaction, before the write happens.
func queryHostSnapshot(ctx context.Context, tx *sql.Tx, hostname string) (hostVersionSnapshot, bool, error) {
	var snap hostVersionSnapshot
	row := tx.QueryRowContext(ctx, `
		SELECT ip_address, environment, role, service, source_id, aliases, groups, metadata, ssh_port, status
		FROM hosts_v2 WHERE hostname = ?`, hostname)
	if err := row.Scan(&snap.IP, &snap.Environment, &snap.Role, &snap.Service, &snap.SourceID,
		&snap.Aliases, &snap.Groups, &snap.Metadata, &snap.SSHPort, &snap.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hostVersionSnapshot{}, false, nil
		}
		return hostVersionSnapshot{}, false, err
	}
	return snap, true, nil
}

// recordHostVersion writes the HostVersion row for an AddHost call. For a
// brand-new host every populated field is recorded as old=nil; for an
// existing host, fields present on patch are compared against `before`,
// the row as read inside the transaction prior to the upsert, so the
// recorded old value is the genuine pre-update one rather than a
// post-RETURNING echo of the new value.
func (s *Store) recordHostVersion(ctx context.Context, tx *sql.Tx, hostID string, existedBefore bool, patch models.HostPatch, before hostVersionSnapshot, now string) (int, map[string]models.FieldDiff, error) {
	var nextVersion int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM host_versions WHERE host_id = ?`, hostID).Scan(&nextVersion); err != nil {
		return 0, nil, fmt.Errorf("next version: %w", err)
	}

	changes := map[string]models.FieldDiff{}
	if !existedBefore {
		if patch.IP != nil {
			changes["ip"] = models.FieldDiff{Old: nil, New: *patch.IP}
		}
		if patch.Environment != nil {
			changes["environment"] = models.FieldDiff{Old: nil, New: *patch.Environment}
		}
		if patch.Role != nil {
			changes["role"] = models.FieldDiff{Old: nil, New: *patch.Role}
		}
		if patch.Service != nil {
			changes["service"] = models.FieldDiff{Old: nil, New: *patch.Service}
		}
		if patch.Aliases != nil {
			changes["aliases"] = models.FieldDiff{Old: nil, New: *patch.Aliases}
		}
		if patch.Groups != nil {
			changes["groups"] = models.FieldDiff{Old: nil, New: *patch.Groups}
		}
		if patch.SSHPort != nil {
			changes["ssh_port"] = models.FieldDiff{Old: nil, New: *patch.SSHPort}
		}
	} else {
		if patch.IP != nil && (!before.IP.Valid || before.IP.String != *patch.IP) {
			changes["ip"] = models.FieldDiff{Old: sqlNullToAny(before.IP), New: *patch.IP}
		}
		if patch.Environment != nil && (!before.Environment.Valid || before.Environment.String != *patch.Environment) {
			changes["environment"] = models.FieldDiff{Old: sqlNullToAny(before.Environment), New: *patch.Environment}
		}
		if patch.Role != nil && (!before.Role.Valid || before.Role.String != *patch.Role) {
			changes["role"] = models.FieldDiff{Old: sqlNullToAny(before.Role), New: *patch.Role}
		}
		if patch.Service != nil && (!before.Service.Valid || before.Service.String != *patch.Service) {
			changes["service"] = models.FieldDiff{Old: sqlNullToAny(before.Service), New: *patch.Service}
		}
		if patch.SSHPort != nil && before.SSHPort != *patch.SSHPort {
			changes["ssh_port"] = models.FieldDiff{Old: before.SSHPort, New: *patch.SSHPort}
		}
		if patch.Status != nil && before.Status != string(*patch.Status) {
			changes["status"] = models.FieldDiff{Old: before.Status, New: string(*patch.Status)}
		}
	}

	if !existedBefore || len(changes) > 0 {
		changesJSON, _ := marshalJSON(changes)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO host_versions (id, host_id, version, changes, changed_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), hostID, nextVersion, changesJSON, patch.ChangedBy, now); err != nil {
			return 0, nil, fmt.Errorf("insert host_version: %w", err)
		}
	}

	return nextVersion, changes, nil
}

func sqlNullToAny(n sql.NullString) any {
	if !n.Valid {
		return nil
	}
	return n.String
}

func nullableJSON(encoded string, present bool) any {
	if !present {
		return nil
	}
	return encoded
}

func nullableStatus(status *models.HostStatus) any {
	if status == nil {
		return nil
	}
	return string(*status)
}

func derefOr(p *[]string, fallback []string) []string {
	if p == nil {
		return fallback
	}
	return *p
}

// BulkAddHosts adds every host in one transaction. Any failure rolls back
// the entire batch and surfaces a PersistenceError carrying
// {hosts_attempted, hosts_before_failure}.
func (s *Store) BulkAddHosts(ctx context.Context, hosts []models.HostPatch, sourceID string, changedBy string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for i, h := range hosts {
		h.ChangedBy = changedBy
		if sourceID != "" {
			sid := sourceID
			h.SourceID = &sid
		}
		if _, err := s.addHostTx(ctx, tx, h); err != nil {
			return 0, apperrors.NewPersistenceError("bulk_add_hosts", "batch rolled back",
				map[string]any{"hosts_attempted": len(hosts), "hosts_before_failure": i}, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// addHostTx is AddHost's logic run against a caller-supplied transaction,
// used by BulkAddHosts so the whole batch shares one atomic unit of work.
func (s *Store) addHostTx(ctx context.Context, tx *sql.Tx, patch models.HostPatch) (string, error) {
	if patch.Hostname == "" {
		return "", fmt.Errorf("hostname is required")
	}
	hostname := strings.ToLower(strings.TrimSpace(patch.Hostname))
	id := newID()
	now := nowString()

	aliasesJSON, _ := marshalJSON(derefOr(patch.Aliases, []string{}))
	groupsJSON, _ := marshalJSON(derefOr(patch.Groups, []string{}))
	metadataJSON, _ := marshalJSON(patch.Metadata)

	row := tx.QueryRowContext(ctx, `
		INSERT INTO hosts_v2 (
			id, hostname, ip_address, aliases, environment, groups, role, service,
			ssh_port, status, source_id, metadata, created_at, updated_at
		) VALUES (
			:id, :hostname, :ip_address, COALESCE(:aliases, '[]'), :environment,
			COALESCE(:groups, '[]'), :role, :service, COALESCE(:ssh_port, 22),
			COALESCE(:status, 'unknown'), :source_id, COALESCE(:metadata, '{}'), :now, :now
		)
		ON CONFLICT(hostname) DO UPDATE SET
			ip_address = COALESCE(:ip_address, hosts_v2.ip_address),
			aliases    = COALESCE(:aliases, hosts_v2.aliases),
			environment = COALESCE(:environment, hosts_v2.environment),
			groups     = COALESCE(:groups, hosts_v2.groups),
			role       = COALESCE(:role, hosts_v2.role),
			service    = COALESCE(:service, hosts_v2.service),
			ssh_port   = COALESCE(:ssh_port, hosts_v2.ssh_port),
			status     = COALESCE(:status, hosts_v2.status),
			source_id  = COALESCE(:source_id, hosts_v2.source_id),
			metadata   = COALESCE(:metadata, hosts_v2.metadata),
			updated_at = :now
		RETURNING id, created_at
	`,
		sql.Named("id", id),
		sql.Named("hostname", hostname),
		sql.Named("ip_address", patch.IP),
		sql.Named("aliases", nullableJSON(aliasesJSON, patch.Aliases != nil)),
		sql.Named("environment", patch.Environment),
		sql.Named("groups", nullableJSON(groupsJSON, patch.Groups != nil)),
		sql.Named("role", patch.Role),
		sql.Named("service", patch.Service),
		sql.Named("ssh_port", patch.SSHPort),
		sql.Named("status", nullableStatus(patch.Status)),
		sql.Named("source_id", patch.SourceID),
		sql.Named("metadata", nullableJSON(metadataJSON, patch.Metadata != nil)),
		sql.Named("now", now),
	)

	var returnedID, createdAt string
	if err := row.Scan(&returnedID, &createdAt); err != nil {
		return "", err
	}
	existedBefore := createdAt != now

	var nextVersion int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM host_versions WHERE host_id = ?`, returnedID).Scan(&nextVersion); err != nil {
		return "", err
	}
	changes := map[string]models.FieldDiff{}
	if !existedBefore {
		changes["created"] = models.FieldDiff{Old: nil, New: true}
	}
	changesJSON, _ := marshalJSON(changes)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO host_versions (id, host_id, version, changes, changed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		newID(), returnedID, nextVersion, changesJSON, patch.ChangedBy, now); err != nil {
		return "", err
	}

	return returnedID, nil
}

func scanHost(row interface {
	Scan(dest ...any) error
}) (*models.Host, error) {
	var (
		h                                         models.Host
		ip, environment, role, service, sourceID  sql.NullString
		aliasesJSON, groupsJSON, metadataJSON, st string
		createdAt, updatedAt                       string
	)
	if err := row.Scan(&h.ID, &h.Hostname, &ip, &aliasesJSON, &environment, &groupsJSON, &role, &service,
		&h.SSHPort, &st, &sourceID, &metadataJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	h.IP = ip.String
	h.Environment = environment.String
	h.Role = role.String
	h.Service = service.String
	h.SourceID = sourceID.String
	h.Status = models.HostStatus(st)
	h.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	_ = unmarshalJSONOr(aliasesJSON, &h.Aliases, "[]")
	_ = unmarshalJSONOr(groupsJSON, &h.Groups, "[]")
	_ = unmarshalJSONOr(metadataJSON, &h.Metadata, "{}")
	return &h, nil
}

const hostColumns = `id, hostname, ip_address, aliases, environment, groups, role, service, ssh_port, status, source_id, metadata, created_at, updated_at`

// GetHostByName looks up a host case-insensitively, first by exact
// hostname, then by exact membership in the aliases JSON array (never a
// substring match on the serialized text).
func (s *Store) GetHostByName(ctx context.Context, name string) (*models.Host, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	row := s.db.QueryRowContext(ctx, `SELECT `+hostColumns+` FROM hosts_v2 WHERE hostname = ?`, name)
	host, err := scanHost(row)
	if err == nil {
		return host, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get host by name: %w", err)
	}

	// Fall back to exact alias membership. SQLite's json_each lets us test
	// array-element equality instead of falling back to in-process parsing.
	row = s.db.QueryRowContext(ctx, `
		SELECT `+hostColumns+` FROM hosts_v2
		WHERE EXISTS (SELECT 1 FROM json_each(hosts_v2.aliases) WHERE json_each.value = ?)
		LIMIT 1`, name)
	host, err = scanHost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewPersistenceError("get_host_by_name", "host not found", map[string]any{"name": name}, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get host by alias: %w", err)
	}
	return host, nil
}

// SearchHostsInput is the optional filter set for SearchHosts.
type SearchHostsInput struct {
	Pattern     string
	Environment string
	Group       string
	SourceID    string
	Status      string
	Limit       *int
}

// SearchHosts matches pattern against hostname/aliases/ip (case
// insensitive) and filters by the remaining fields when set. A nil Limit
// returns every matching row.
func (s *Store) SearchHosts(ctx context.Context, in SearchHostsInput) ([]*models.Host, error) {
	query := `SELECT ` + hostColumns + ` FROM hosts_v2 WHERE 1=1`
	var args []any

	if in.Pattern != "" {
		like := "%" + escapeLike(strings.ToLower(in.Pattern)) + "%"
		query += ` AND (
			LOWER(hostname) LIKE ? ESCAPE '\' OR
			LOWER(COALESCE(ip_address, '')) LIKE ? ESCAPE '\' OR
			EXISTS (SELECT 1 FROM json_each(hosts_v2.aliases) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')
		)`
		args = append(args, like, like, like)
	}
	if in.Environment != "" {
		query += ` AND environment = ?`
		args = append(args, in.Environment)
	}
	if in.Group != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(hosts_v2.groups) WHERE json_each.value = ?)`
		args = append(args, in.Group)
	}
	if in.SourceID != "" {
		query += ` AND source_id = ?`
		args = append(args, in.SourceID)
	}
	if in.Status != "" {
		query += ` AND status = ?`
		args = append(args, in.Status)
	}
	query += ` ORDER BY hostname`
	if in.Limit != nil {
		query += ` LIMIT ?`
		args = append(args, *in.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search hosts: %w", err)
	}
	defer rows.Close()

	var out []*models.Host
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteHost snapshots the full row into HostDeletion in the same
// transaction that deletes the host, so the audit record and the delete
// are atomic. Deletion cascades to host_versions and host_relations/
// scan_cache for that host via ON DELETE CASCADE; the audit row is not
// FK-bound and survives.
func (s *Store) DeleteHost(ctx context.Context, hostname, deletedBy, reason string) error {
	hostname = strings.ToLower(strings.TrimSpace(hostname))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+hostColumns+` FROM hosts_v2 WHERE hostname = ?`, hostname)
	host, err := scanHost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewPersistenceError("delete_host", "host not found", map[string]any{"hostname": hostname}, apperrors.ErrNotFound)
		}
		return fmt.Errorf("lookup host: %w", err)
	}

	aliasesJSON, _ := marshalJSON(host.Aliases)
	groupsJSON, _ := marshalJSON(host.Groups)
	metadataJSON, _ := marshalJSON(host.Metadata)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO host_deletions (
			id, host_id, hostname, ip_address, aliases, environment, groups, role, service,
			ssh_port, status, source_id, metadata, deleted_by, deletion_reason, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newID(), host.ID, host.Hostname, nullOrString(host.IP), aliasesJSON, nullOrString(host.Environment), groupsJSON,
		nullOrString(host.Role), nullOrString(host.Service), host.SSHPort, string(host.Status),
		nullOrString(host.SourceID), metadataJSON, deletedBy, reason, nowString()); err != nil {
		return fmt.Errorf("insert host_deletion: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM hosts_v2 WHERE id = ?`, host.ID); err != nil {
		return fmt.Errorf("delete host: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.notifyHostChanged(ctx, host.ID, hostname)
	return nil
}

func nullOrString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
