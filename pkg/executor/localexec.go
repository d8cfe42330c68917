package executor

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// localTargets are the special target strings that run on the caller's
// own machine rather than over SSH, per spec.md §4.7.
var localTargets = map[string]bool{
	"local":     true,
	"localhost": true,
}

func isLocalTarget(target string) bool {
	return localTargets[target]
}

func runLocal(ctx context.Context, command string, timeout time.Duration) (exitCode int, stdout, stderr string, timedOut bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if ctx.Err() == context.DeadlineExceeded {
		return -1, stdout, stderr, true
	}
	if err == nil {
		return 0, stdout, stderr, false
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), stdout, stderr, false
	}
	return -1, stdout, stderr, false
}
