// Package executor runs a single command against a local or remote
// target, computing a risk assessment up front and attaching an error
// analysis to any failure, per spec.md §4.7.
package executor

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/codeready-toolchain/athena/pkg/erroranalyzer"
	"github.com/codeready-toolchain/athena/pkg/masking"
	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/codeready-toolchain/athena/pkg/risk"
)

// minErrorAnalysisConfidence is the bar an error analysis must clear to
// be attached to a failed result, per spec.md §4.7.
const minErrorAnalysisConfidence = 0.6

// Executor runs commands locally or over SSH, gating on risk and
// attaching error analysis to failures.
type Executor struct {
	Credentials     CredentialProvider
	HostKeyCallback ssh.HostKeyCallback
	Masker          *masking.Service
	Analyzer        *erroranalyzer.Analyzer
}

// New returns an Executor with sane defaults: no credentials configured
// (SSH auth falls back to agent/default key discovery), an insecure
// host-key callback a caller is expected to replace, and a fresh masking
// service and keyword-only error analyzer.
func New() *Executor {
	return &Executor{
		Credentials: NoCredentials{},
		Masker:      masking.NewService(),
		Analyzer:    erroranalyzer.New(nil, 0),
	}
}

// Execute runs one command against target. If confirm is false and the
// command's risk level requires confirmation, it returns without running
// anything.
func (e *Executor) Execute(ctx context.Context, target, command string, confirm bool, timeout time.Duration, reporter ProgressReporter) models.ExecutionResult {
	if reporter == nil {
		reporter = noopReporter{}
	}

	assessment := risk.Assess(command)
	result := models.ExecutionResult{
		Target:  target,
		Command: command,
		Risk:    assessment,
	}

	logged := command
	if e.Masker != nil {
		logged = masking.RedactCommand(e.Masker, command)
	}
	slog.Info("executing command", "target", target, "command", logged, "risk", assessment.Level)

	if assessment.Level.RequiresConfirmation() && !confirm {
		result.Success = false
		result.Error = "requires confirmation"
		return result
	}

	reporter.Start(target)
	defer reporter.Done()

	start := time.Now()
	if isLocalTarget(target) {
		exitCode, stdout, stderr, timedOut := runLocal(ctx, command, timeout)
		result.ExitCode, result.Stdout, result.Stderr = exitCode, stdout, stderr
		if timedOut {
			result.Success = false
			result.Error = "timeout"
		} else {
			result.Success = exitCode == 0
		}
	} else {
		creds, credErr := e.Credentials.Resolve(ctx, target)
		if credErr != nil {
			result.Success = false
			result.Error = credErr.Error()
			result.Duration = time.Since(start)
			return result
		}

		sshCtx, cancel := context.WithTimeout(ctx, timeout)
		exitCode, stdout, stderr, timedOut, runErr := runSSH(sshCtx, target, command, timeout, creds, e.HostKeyCallback)
		cancel()

		result.ExitCode, result.Stdout, result.Stderr = exitCode, stdout, stderr
		switch {
		case timedOut:
			result.Success = false
			result.Error = "timeout"
		case runErr != nil:
			result.Success = false
			result.Error = runErr.Error()
		default:
			result.Success = exitCode == 0
		}
	}
	result.Duration = time.Since(start)

	if !result.Success && result.ExitCode != 0 && result.Stderr != "" && e.Analyzer != nil {
		analysis := e.Analyzer.Analyze(ctx, result.Stderr)
		if analysis.Confidence >= minErrorAnalysisConfidence {
			result.ErrorAnalysis = &analysis
		}
	}

	return result
}

// NeedsCredentials reports whether result's failure looks credential
// related, exposed so the orchestrator can prompt for auth without
// reparsing stderr itself.
func NeedsCredentials(result models.ExecutionResult) bool {
	return result.NeedsCredentials()
}

// Action is one unit of work submitted to ExecuteBatch.
type Action struct {
	Target  string
	Command string
	Confirm bool
	Timeout time.Duration
}

// ExecuteBatch runs actions sequentially, tagging each result with its
// index. A per-action spinner is suppressed in favor of an overall batch
// reporter; stopOnFailure halts after the first unsuccessful result.
func (e *Executor) ExecuteBatch(ctx context.Context, actions []Action, stopOnFailure bool, reporter ProgressReporter) []models.ExecutionResult {
	if reporter == nil {
		reporter = noopReporter{}
	}
	if len(actions) > 1 {
		reporter.Start("running batch")
	}

	results := make([]models.ExecutionResult, 0, len(actions))
	for i, action := range actions {
		if len(actions) > 1 {
			reporter.Update(action.Target)
		}

		var perAction ProgressReporter = noopReporter{}
		if len(actions) == 1 {
			perAction = reporter
		}

		result := e.Execute(ctx, action.Target, action.Command, action.Confirm, action.Timeout, perAction)
		result.ActionIndex = i
		results = append(results, result)

		if stopOnFailure && !result.Success {
			break
		}
	}

	if len(actions) > 1 {
		reporter.Done()
	}
	return results
}
