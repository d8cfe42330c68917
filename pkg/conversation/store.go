// Package conversation is Athena's L9 component: a rolling,
// token-budgeted chat history persisted to the same embedded relational
// store pkg/inventory and pkg/triage use. At most one conversation is
// ever current; starting or switching to another archives it in the
// same statement that clears the flag, so a reader never observes two
// rows both claiming is_current.
package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/database"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// DefaultTokenLimit and DefaultCompactThreshold match spec.md §4.9's
// stated defaults: compact once token_count reaches 80% of 100,000.
const (
	DefaultTokenLimit       = 100_000
	DefaultCompactThreshold = 0.8
)

// Store persists conversations and messages.
type Store struct {
	db               *sql.DB
	tokenLimit       int
	compactThreshold float64
}

// NewStore wraps an already-migrated database client with the default
// token budget.
func NewStore(client *database.Client) *Store {
	return &Store{
		db:               client.DB(),
		tokenLimit:       DefaultTokenLimit,
		compactThreshold: DefaultCompactThreshold,
	}
}

// WithBudget overrides the token limit and compact threshold; intended
// for tests that want to exercise compaction without 100,000 characters
// of fixture text.
func (s *Store) WithBudget(tokenLimit int, compactThreshold float64) *Store {
	s.tokenLimit = tokenLimit
	s.compactThreshold = compactThreshold
	return s
}

func newID() string { return uuid.NewString() }

func nowString() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Current returns the conversation with is_current=1, creating a fresh
// one titled by the current timestamp if none exists yet.
func (s *Store) Current(ctx context.Context) (*models.Conversation, error) {
	conv, found, err := s.findCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return conv, nil
	}
	return s.StartNew(ctx, "")
}

func (s *Store) findCurrent(ctx context.Context) (*models.Conversation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at, token_count, compacted, is_current
		FROM conversations WHERE is_current = 1 LIMIT 1`)
	conv, err := scanConversation(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewPersistenceError("conversation_find_current", "lookup failed", nil, err)
	}
	return conv, true, nil
}

func scanConversation(row *sql.Row) (*models.Conversation, error) {
	var c models.Conversation
	var createdAt, updatedAt string
	var compacted, isCurrent int
	if err := row.Scan(&c.ID, &c.Title, &createdAt, &updatedAt, &c.TokenCount, &compacted, &isCurrent); err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	c.Compacted = compacted != 0
	c.IsCurrent = isCurrent != 0
	return &c, nil
}

// StartNew archives whatever conversation is current (if any) and
// creates a fresh one, returning it. An empty title is replaced with a
// timestamped default.
func (s *Store) StartNew(ctx context.Context, title string) (*models.Conversation, error) {
	if title == "" {
		title = fmt.Sprintf("Conversation %s", time.Now().UTC().Format("2006-01-02 15:04"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE conversations SET is_current = 0 WHERE is_current = 1`); err != nil {
		return nil, apperrors.NewPersistenceError("conversation_archive", "archive current failed", nil, err)
	}

	id := newID()
	now := nowString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at, updated_at, token_count, compacted, is_current)
		VALUES (?, ?, ?, ?, 0, 0, 1)`, id, title, now, now); err != nil {
		return nil, apperrors.NewPersistenceError("conversation_start", "insert failed", nil, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &models.Conversation{ID: id, Title: title, CreatedAt: parseTime(now), UpdatedAt: parseTime(now), IsCurrent: true}, nil
}

// AddMessage appends a message to conversationID, estimating its token
// count, and bumps the conversation's token_count and updated_at in the
// same transaction.
func (s *Store) AddMessage(ctx context.Context, conversationID string, role models.Role, content string) (models.Message, error) {
	tokens := models.EstimateTokens(content)
	now := nowString()
	id := newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Message{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, timestamp, tokens)
		VALUES (?, ?, ?, ?, ?, ?)`, id, conversationID, string(role), content, now, tokens); err != nil {
		return models.Message{}, apperrors.NewPersistenceError("message_add", "insert failed", map[string]any{"conversation_id": conversationID}, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE conversations SET token_count = token_count + ?, updated_at = ? WHERE id = ?`,
		tokens, now, conversationID); err != nil {
		return models.Message{}, apperrors.NewPersistenceError("message_add", "conversation stats update failed", map[string]any{"conversation_id": conversationID}, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, fmt.Errorf("commit: %w", err)
	}

	return models.Message{ID: id, ConversationID: conversationID, Role: role, Content: content, Timestamp: parseTime(now), Tokens: tokens}, nil
}

// Messages returns every message for conversationID in timestamp order.
func (s *Store) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, timestamp, tokens
		FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC`, conversationID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("messages_list", "query failed", map[string]any{"conversation_id": conversationID}, err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		var ts string
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &ts, &m.Tokens); err != nil {
			return nil, apperrors.NewPersistenceError("messages_list", "scan failed", map[string]any{"conversation_id": conversationID}, err)
		}
		m.Role = models.Role(role)
		m.Timestamp = parseTime(ts)
		out = append(out, m)
	}
	return out, rows.Err()
}

// ShouldCompact reports whether conv's token_count has reached the
// compact-threshold fraction of the token limit.
func (s *Store) ShouldCompact(conv *models.Conversation) bool {
	return float64(conv.TokenCount) >= float64(s.tokenLimit)*s.compactThreshold
}

// MustCompact reports whether conv's token_count is at or over the hard
// token limit.
func (s *Store) MustCompact(conv *models.Conversation) bool {
	return conv.TokenCount >= s.tokenLimit
}
