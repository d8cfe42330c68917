// Package masking redacts secrets, infrastructure identifiers, and
// prompt-injection attempts from text before it is logged or sent to an
// LLM. One sanitizer, three call sites: the inventory parser's LLM
// fallback (pkg/parser), the action executor's command log (pkg/executor),
// and the auto-corrector's rewrite log (pkg/corrector) all share this
// service rather than each rolling their own redaction.
package masking

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Service compiles the built-in patterns once at construction and applies
// them on demand. Safe for concurrent use: all state is read-only after
// NewService returns.
type Service struct {
	patterns      map[string]*CompiledPattern
	patternGroups map[string][]string
	codeMaskers   map[string]Masker
}

// NewService compiles every built-in pattern and registers the code-based
// maskers. Invalid patterns are logged and skipped rather than panicking,
// matching the teacher's fail-soft construction.
func NewService() *Service {
	s := &Service{
		patterns:      make(map[string]*CompiledPattern),
		patternGroups: patternGroups,
		codeMaskers:   make(map[string]Masker),
	}

	s.compile(secretPatterns)
	s.compile(infraPatterns)
	s.compile(injectionPatterns)
	s.registerMasker(&KubernetesSecretMasker{})

	slog.Debug("masking service initialized",
		"compiled_patterns", len(s.patterns),
		"code_maskers", len(s.codeMaskers))

	return s
}

func (s *Service) compile(defs map[string]patternDef) {
	for name, def := range defs {
		compiled, err := regexp.Compile(def.Pattern)
		if err != nil {
			slog.Error("failed to compile masking pattern, skipping", "pattern", name, "error", err)
			continue
		}
		s.patterns[name] = &CompiledPattern{
			Name:        name,
			Regex:       compiled,
			Replacement: def.Replacement,
			Description: def.Description,
		}
	}
}

func (s *Service) registerMasker(m Masker) {
	s.codeMaskers[m.Name()] = m
}

// resolve expands group names into a deduplicated, ordered pattern list.
func (s *Service) resolve(groups []string) []*CompiledPattern {
	seen := make(map[string]bool)
	var out []*CompiledPattern
	for _, group := range groups {
		for _, name := range s.patternGroups[group] {
			if seen[name] {
				continue
			}
			seen[name] = true
			if cp, ok := s.patterns[name]; ok {
				out = append(out, cp)
			}
		}
	}
	return out
}

// Redact applies the named pattern groups (plus registered code maskers
// when "infra" or "all" is requested) to content and returns the result.
// Fail-open: a masker error leaves that masker's phase unmodified rather
// than aborting the whole pass, since Redact is used for best-effort
// logging (executor command logs, corrector rewrite logs) rather than
// data that must never leak.
func (s *Service) Redact(content string, groups ...string) string {
	if content == "" {
		return content
	}
	masked := content
	for _, m := range s.codeMaskers {
		if m.AppliesTo(masked) {
			masked = m.Mask(masked)
		}
	}
	for _, cp := range s.resolve(groups) {
		masked = cp.Regex.ReplaceAllString(masked, cp.Replacement)
	}
	return masked
}

// InjectionMatch records one neutralized prompt-injection attempt, kept
// aggregate-only so a warning never echoes the raw matched content.
type InjectionMatch struct {
	Type  string
	Count int
}

// SanitizeForLLM runs the two-pass sanitization spec.md §4.2 requires
// before any inventory text is embedded in an LLM prompt: PII/infra
// redaction first, then prompt-injection neutralization. It returns the
// sanitized text plus a list of injection types detected (for an
// aggregated warning), never the matched content itself.
func (s *Service) SanitizeForLLM(content string) (string, []InjectionMatch) {
	sanitized := s.Redact(content, "secrets", "infra")

	counts := make(map[string]int)
	var order []string
	for name, cp := range s.patterns {
		if _, isInjection := injectionPatterns[name]; !isInjection {
			continue
		}
		matches := cp.Regex.FindAllString(sanitized, -1)
		if len(matches) == 0 {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name] += len(matches)
		sanitized = cp.Regex.ReplaceAllString(sanitized, cp.Replacement)
	}

	if len(order) == 0 {
		return sanitized, nil
	}
	result := make([]InjectionMatch, 0, len(order))
	for _, name := range order {
		result = append(result, InjectionMatch{Type: name, Count: counts[name]})
	}
	return sanitized, result
}

// RedactCommand strips passwords, tokens, and @variable values from a
// command string before it is logged, per spec.md §4.7.
var atVariablePattern = regexp.MustCompile(`@(\S+)`)

func RedactCommand(svc *Service, command string) string {
	redacted := svc.Redact(command, "secrets")
	redacted = atVariablePattern.ReplaceAllString(redacted, "@[REDACTED]")
	return redacted
}

// Delimit wraps sanitized content between a pair of unique, unguessable
// delimiters so the LLM cannot reliably locate or escape the boundary of
// untrusted inventory text embedded in its prompt (spec.md §4.2, §9).
func Delimit(token, content string) string {
	return fmt.Sprintf("<<<UNTRUSTED_INVENTORY_%s>>>\n%s\n<<<END_UNTRUSTED_INVENTORY_%s>>>", token, content, token)
}
