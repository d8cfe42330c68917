// Package corrector retries a failed command by asking an LLM for a
// single corrected rewrite, per spec.md §4.8. It never attempts to
// fix a permission-elevation failure itself — that is a separate
// concern from a command typo or a wrong binary name.
package corrector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/executor"
	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/masking"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// defaultMaxRetries matches spec.md §4.8's stated default.
const defaultMaxRetries = 2

// defaultAttemptTimeout bounds each retried attempt when the caller
// doesn't carry a more specific per-action timeout.
const defaultAttemptTimeout = 30 * time.Second

// maxErrorLength bounds how much of a failure's stderr/error is handed
// to the LLM, per spec.md §4.8's "error (<=200 chars)".
const maxErrorLength = 200

// elevationPrefixes are rejected outright from any LLM-suggested fix:
// privilege elevation is handled by a separate component, never by the
// corrector rewriting a command into one.
var elevationPrefixes = []string{"sudo ", "su ", "doas ", "su-"}

// RetryContext carries the caller's intent for the command being
// corrected, passed to the LLM so its suggestion stays on-task.
type RetryContext struct {
	Goal   string
	OS     string
	Target string
}

// Corrector retries a failed command through an executor, asking
// generator for a corrected rewrite between attempts.
type Corrector struct {
	Executor  *executor.Executor
	Generator llm.Generator
	Masker    *masking.Service
}

// New returns a Corrector wired to exec and generator; masker may be nil,
// in which case rewrites are logged unredacted.
func New(exec *executor.Executor, generator llm.Generator, masker *masking.Service) *Corrector {
	return &Corrector{Executor: exec, Generator: generator, Masker: masker}
}

// ExecuteWithRetry runs command against target, and on failure asks the
// LLM for a corrected command up to maxRetries times. retryInfo is nil
// only when the first attempt succeeds outright. A timeout of 0 uses
// defaultAttemptTimeout for every attempt.
func (c *Corrector) ExecuteWithRetry(ctx context.Context, target, command string, rctx RetryContext, maxRetries int, timeout time.Duration) (models.ExecutionResult, *models.RetryInfo) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	current := command
	var corrections []models.RetryCorrection
	var result models.ExecutionResult

	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		result = c.Executor.Execute(ctx, target, current, true, timeout, nil)
		if result.Success {
			if attempt > 1 {
				return result, &models.RetryInfo{Attempts: attempt, Corrections: corrections}
			}
			return result, nil
		}

		if attempt > maxRetries {
			return result, &models.RetryInfo{Attempts: attempt, Corrections: corrections}
		}

		errText := result.Stderr
		if errText == "" {
			errText = result.Error
		}

		if isElevationFailure(errText, current) {
			slog.Info("skipping auto-correction for elevation failure", "target", target)
			return result, &models.RetryInfo{Attempts: attempt, Corrections: corrections}
		}

		corrected, err := c.getCorrection(ctx, rctx.Goal, current, errText, target, rctx.OS)
		if err != nil {
			slog.Error("auto-correction request failed", "error", err)
			return result, &models.RetryInfo{Attempts: attempt, Corrections: corrections}
		}

		if corrected == "" || corrected == current {
			return result, &models.RetryInfo{Attempts: attempt, Corrections: corrections}
		}

		corrections = append(corrections, models.RetryCorrection{
			Attempt: attempt,
			Failed:  current,
			Error:   truncate(errText, maxErrorLength),
			Fix:     corrected,
		})

		logged := corrected
		if c.Masker != nil {
			logged = masking.RedactCommand(c.Masker, corrected)
		}
		slog.Info("retrying with corrected command", "target", target, "command", logged)
		current = corrected
	}

	return result, &models.RetryInfo{Attempts: maxRetries + 1, Corrections: corrections}
}

// isElevationFailure reports whether a failure looks like a permission
// elevation problem rather than a command problem: it mentions both
// "password" and "sudo", either in the error or in the command itself.
func isElevationFailure(errText, command string) bool {
	lowerErr := strings.ToLower(errText)
	lowerCmd := strings.ToLower(command)
	return strings.Contains(lowerErr, "password") && (strings.Contains(lowerErr, "sudo") || strings.Contains(lowerCmd, "sudo"))
}

func (c *Corrector) getCorrection(ctx context.Context, goal, failed, errText, target, os string) (string, error) {
	if goal == "" {
		goal = "Execute command"
	}
	if os == "" {
		os = "unknown"
	}

	prompt := fmt.Sprintf(`FIX THIS COMMAND

Goal: %s
Failed: %s
Error: %s
Host: %s (%s)

CRITICAL RULES:
1. NEVER add sudo, su, doas, or any privilege elevation prefix
2. Privilege elevation is handled automatically by the system
3. If error is "permission denied", return the EXACT original command unchanged
4. Only fix actual command syntax errors (typos, wrong binary names, wrong flags)

Return ONLY the corrected command. No explanation. No sudo/su/doas.
If permission error or unfixable, return original command exactly.`,
		goal, failed, truncate(errText, maxErrorLength), target, os)

	response, err := c.Generator.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: "Expert DevOps engineer. Return only corrected command.",
		UserPrompt:   prompt,
	})
	if err != nil {
		return failed, err
	}
	return extractCommand(response), nil
}

// extractCommand pulls the first usable line out of an LLM response,
// skipping markdown fences/comments and rejecting any line that tries to
// smuggle in a privilege-elevation prefix. If every line is rejected —
// including the case where the whole response is itself one
// elevation-prefixed command — it returns "" rather than falling back to
// the raw response, since that fallback would hand an elevated command
// straight back to ExecuteWithRetry for execution.
func extractCommand(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "```") {
			continue
		}
		if startsWithElevation(line) {
			slog.Warn("auto-corrector suggested a privileged command, ignoring", "command", truncate(line, 50))
			continue
		}
		return line
	}
	return ""
}

func startsWithElevation(line string) bool {
	for _, prefix := range elevationPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
