package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// Summarizer produces a free-text summary of a conversation's messages,
// letting the orchestrator supply an LLM-backed implementation. When nil,
// Compact falls back to generateSimpleSummary.
type Summarizer interface {
	Summarize(ctx context.Context, conv *models.Conversation, messages []models.Message) (string, error)
}

// summaryPreviewLen and lastInteractionCount match spec.md §4.9's
// deterministic-fallback shape: the last three interactions, each
// truncated to 100 characters.
const (
	summaryPreviewLen    = 100
	lastInteractionCount = 3
)

// infraKeywords are the terms the deterministic fallback summary counts
// occurrences of, carried over from the original conversation manager's
// simple-summary heuristic.
var infraKeywords = []string{
	"server", "nginx", "docker", "kubernetes", "terraform",
	"ansible", "deploy", "restart", "install", "configure",
	"host", "database", "mongodb", "postgresql", "mysql",
}

// Compact archives the current conversation, starts a new one titled
// "Continuation of <old id>", and inserts a synthesized summary as its
// first assistant message. summarizer may be nil, in which case a
// deterministic summary is generated instead of calling an LLM.
func (s *Store) Compact(ctx context.Context, summarizer Summarizer) (*models.Conversation, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.Messages(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	var summary string
	if summarizer != nil {
		summary, err = summarizer.Summarize(ctx, current, messages)
		if err != nil {
			summary = generateSimpleSummary(current, messages)
		}
	} else {
		summary = generateSimpleSummary(current, messages)
	}

	oldID := current.ID
	next, err := s.StartNew(ctx, fmt.Sprintf("Continuation of %s", oldID))
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("[SUMMARY OF PREVIOUS CONVERSATION]\n\n%s\n\n[END SUMMARY]", summary)
	if _, err := s.AddMessage(ctx, next.ID, models.RoleAssistant, body); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE conversations SET compacted = 1 WHERE id = ?`, oldID); err != nil {
		return nil, fmt.Errorf("mark compacted: %w", err)
	}

	refreshed, err := s.findCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

// generateSimpleSummary reproduces the original conversation manager's
// no-LLM fallback: message counts, token total, wall-clock duration, the
// top five infrastructure keywords observed, and the last three
// interactions truncated to summaryPreviewLen characters each.
func generateSimpleSummary(conv *models.Conversation, messages []models.Message) string {
	var userCount, assistantCount int
	var allContent strings.Builder
	for _, m := range messages {
		switch m.Role {
		case models.RoleUser:
			userCount++
		case models.RoleAssistant:
			assistantCount++
		}
		allContent.WriteString(strings.ToLower(m.Content))
		allContent.WriteString(" ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Previous conversation summary:\n")
	fmt.Fprintf(&b, "- Total interactions: %d user requests, %d responses\n", userCount, assistantCount)
	fmt.Fprintf(&b, "- Total tokens: %d\n", conv.TokenCount)
	fmt.Fprintf(&b, "- Started: %s\n", conv.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- Duration: %d minutes\n", int(conv.UpdatedAt.Sub(conv.CreatedAt).Minutes()))

	keywords := topKeywords(allContent.String())
	if len(keywords) > 0 {
		b.WriteString("\nMain topics discussed:\n")
		for _, kw := range keywords {
			fmt.Fprintf(&b, "  - %s (mentioned %d times)\n", kw.term, kw.count)
		}
	}

	if len(messages) > lastInteractionCount*2 {
		b.WriteString(fmt.Sprintf("\nLast %d interactions:\n", lastInteractionCount))
		for _, m := range messages[len(messages)-lastInteractionCount*2:] {
			label := "User"
			if m.Role == models.RoleAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "  %s: %s\n", label, truncatePreview(m.Content))
		}
	}

	return b.String()
}

type keywordCount struct {
	term  string
	count int
}

func topKeywords(content string) []keywordCount {
	counts := make(map[string]int, len(infraKeywords))
	for _, word := range strings.Fields(content) {
		counts[word]++
	}

	var out []keywordCount
	for _, kw := range infraKeywords {
		if count := counts[kw]; count > 0 {
			out = append(out, keywordCount{term: kw, count: count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func truncatePreview(content string) string {
	if len(content) <= summaryPreviewLen {
		return content
	}
	return content[:summaryPreviewLen] + "..."
}
