// Package inventory is Athena's L1 component: versioned host, source,
// relation, scan-cache, and snapshot persistence over the single embedded
// relational file opened by pkg/database. Every exported Store method is
// one transaction; callers never observe partial state.
package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/database"
)

// Store is the process-wide inventory repository. Per spec.md §5 it is a
// singleton: re-initialization with a different backing path is ignored
// with a warning rather than silently reopening a second file.
type Store struct {
	db *sql.DB

	mu         sync.RWMutex
	secondary  SecondaryStore
	sourcePath string
}

// SecondaryStore is the optional graph-database mirror spec.md §9 leaves
// as an open question. No concrete implementation ships: the interface
// exists so a future mirror can observe writes without the primary store
// changing shape.
type SecondaryStore interface {
	OnHostChanged(ctx context.Context, hostID, hostname string)
	OnRelationChanged(ctx context.Context, relationID string)
}

var (
	instance     *Store
	instanceOnce sync.Once
	instanceMu   sync.Mutex
)

// NewStore wraps an already-migrated database client. Most callers should
// use Instance/InitInstance instead to get the process-wide singleton.
func NewStore(client *database.Client) *Store {
	return &Store{db: client.DB(), sourcePath: client.Path()}
}

// InitInstance initializes the process-wide singleton from the given
// client. A second call with a different path is a no-op (logged by the
// caller), matching the teacher's module-level-singleton convention
// generalized per spec.md §5.
func InitInstance(client *database.Client) *Store {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = NewStore(client)
		return instance
	}
	return instance
}

// Instance returns the process-wide singleton, or nil if InitInstance has
// not been called yet.
func Instance() *Store {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// ResetInstance clears the singleton. Tests only.
func ResetInstance() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
}

// SetSecondaryStore attaches the optional mirror.
func (s *Store) SetSecondaryStore(ss SecondaryStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondary = ss
}

func (s *Store) notifyHostChanged(ctx context.Context, hostID, hostname string) {
	s.mu.RLock()
	ss := s.secondary
	s.mu.RUnlock()
	if ss != nil {
		ss.OnHostChanged(ctx, hostID, hostname)
	}
}

func (s *Store) notifyRelationChanged(ctx context.Context, relationID string) {
	s.mu.RLock()
	ss := s.secondary
	s.mu.RUnlock()
	if ss != nil {
		ss.OnRelationChanged(ctx, relationID)
	}
}

func newID() string {
	return uuid.NewString()
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(b), nil
}

func unmarshalJSONOr(raw string, out any, fallback string) error {
	if raw == "" {
		raw = fallback
	}
	return json.Unmarshal([]byte(raw), out)
}

// escapeLike escapes SQL LIKE wildcards in user-supplied search input so
// pattern matching never treats a literal "%" or "_" as a wildcard.
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '%', '_', '\\':
			r = append(r, '\\', c)
		default:
			r = append(r, c)
		}
	}
	return string(r)
}

func isConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	// modernc.org/sqlite wraps the underlying SQLITE_CONSTRAINT code in its
	// error string; it does not export a typed sentinel the way pgx/pq do.
	msg := err.Error()
	return containsAny(msg, []string{"constraint failed", "UNIQUE constraint", "FOREIGN KEY constraint"})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if len(s) >= len(sub) && indexOf(s, sub) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func wrapNotFound(operation string, err error) error {
	return apperrors.NewPersistenceError(operation, "not found", nil, apperrors.ErrNotFound)
}
