package triage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// maxImplicitConfidence and maxExplicitConfidence cap where
// IncrementConfidence and RecordFeedback respectively can raise a
// pattern's learned confidence: repeated unmolested use tops out below
// full trust, explicit user correction reaches it.
const (
	implicitIncrement     = 0.1
	maxImplicitConfidence = 0.8
	autoClassifyConfidence = 0.5
	smartClassifierThreshold = 0.7
)

// PatternStore persists learned (user, normalized query) -> (intent,
// priority) outcomes in the triage_patterns table, letting repeat
// queries short-circuit full classification once they're trusted enough.
type PatternStore struct {
	db *sql.DB
}

// NewPatternStore wraps an already-open database handle; triage shares
// the same embedded file pkg/inventory and pkg/conversation use.
func NewPatternStore(db *sql.DB) *PatternStore {
	return &PatternStore{db: db}
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Find looks up a stored pattern for (userID, query), returning ok=false
// if none exists.
func (s *PatternStore) Find(ctx context.Context, userID, query string) (*models.TriagePattern, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, query_normalized, intent, priority, embedding, confidence, use_count, created_at
		FROM triage_patterns WHERE user_id = ? AND query_normalized = ?`,
		userID, normalizeQuery(query))

	var p models.TriagePattern
	var embedding sql.NullString
	var createdAt string
	if err := row.Scan(&p.UserID, &p.QueryNormalized, &p.Intent, &p.Priority, &embedding, &p.Confidence, &p.UseCount, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, apperrors.NewPersistenceError("triage_pattern_find", "lookup failed", map[string]any{"user_id": userID}, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = t.Unix()
	}
	return &p, true, nil
}

// Upsert records a newly auto-classified outcome at confidence 0.5, or
// bumps use_count if the (user, query) pair is already known — per
// spec.md §4.6, an auto-classified pattern is stored but not yet used
// for predictions until it earns confidence via use or feedback.
func (s *PatternStore) Upsert(ctx context.Context, userID, query string, intent models.Intent, priority models.Priority) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_patterns (user_id, query_normalized, intent, priority, confidence, use_count, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(user_id, query_normalized) DO UPDATE SET use_count = use_count + 1`,
		userID, normalizeQuery(query), string(intent), string(priority), autoClassifyConfidence, now)
	if err != nil {
		return apperrors.NewPersistenceError("triage_pattern_upsert", "upsert failed", map[string]any{"user_id": userID}, err)
	}
	return nil
}

// IncrementConfidence applies implicit validation: a stored pattern used
// without correction gains 0.1 confidence, capped at 0.8 (never reaching
// the 1.0 reserved for explicit feedback).
func (s *PatternStore) IncrementConfidence(ctx context.Context, userID, query string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE triage_patterns
		SET confidence = MIN(?, confidence + ?), use_count = use_count + 1
		WHERE user_id = ? AND query_normalized = ? AND confidence < ?`,
		maxImplicitConfidence, implicitIncrement, userID, normalizeQuery(query), maxImplicitConfidence)
	if err != nil {
		return apperrors.NewPersistenceError("triage_pattern_increment", "increment failed", map[string]any{"user_id": userID}, err)
	}
	return nil
}

// RecordFeedback applies explicit user correction: confidence is set to
// 1.0 and the stored intent/priority overwritten with what the user
// confirmed as correct, upserting a new pattern if none existed yet.
func (s *PatternStore) RecordFeedback(ctx context.Context, userID, query string, intent models.Intent, priority models.Priority) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_patterns (user_id, query_normalized, intent, priority, confidence, use_count, created_at)
		VALUES (?, ?, ?, ?, 1.0, 1, ?)
		ON CONFLICT(user_id, query_normalized) DO UPDATE SET
			intent = excluded.intent, priority = excluded.priority, confidence = 1.0, use_count = use_count + 1`,
		userID, normalizeQuery(query), string(intent), string(priority), now)
	if err != nil {
		return apperrors.NewPersistenceError("triage_pattern_feedback", "feedback update failed", map[string]any{"user_id": userID}, err)
	}
	return nil
}
