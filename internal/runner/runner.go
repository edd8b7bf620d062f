// Package runner invokes the external test-with-coverage command.
//
// The test runner is an opaque collaborator: it may fail, be missing
// entirely, or succeed without leaving a coverage artifact behind. All of
// those outcomes are tolerated; the acquirer degrades to the next data tier.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a test command with a bounded wait.
// It follows the http.Client pattern: create once, use many times.
type Runner struct {
	// Command is the full command line, split on whitespace.
	Command string

	// Dir is the working directory for the command. Empty means the
	// current directory.
	Dir string

	// Timeout bounds the run. Zero means no timeout beyond the caller's
	// context. A hung test run must never block validation indefinitely.
	Timeout time.Duration
}

// Result holds the outcome of a test command invocation.
type Result struct {
	// Output is the combined stdout and stderr of the command, captured
	// even on failure so percentage patterns can be scraped from it.
	Output string

	// Err is non-nil when the command failed, was missing, or timed out.
	Err error

	// TimedOut indicates the run was killed after exceeding the timeout.
	TimedOut bool
}

// Ran reports whether the command completed successfully.
func (r *Result) Ran() bool {
	return r != nil && r.Err == nil
}

// Run executes the configured command and captures its combined output.
// It never returns an error: failures are carried on the Result, because a
// failed or absent test run downgrades the acquisition tier rather than
// aborting the pipeline.
func (r *Runner) Run(ctx context.Context) *Result {
	fields := strings.Fields(r.Command)
	if len(fields) == 0 {
		return &Result{Err: errors.New("no test command configured")}
	}

	ctxToUse := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		ctxToUse, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctxToUse, fields[0], fields[1:]...)
	cmd.Dir = r.Dir

	output, err := cmd.CombinedOutput()
	result := &Result{Output: string(output)}

	if err != nil {
		if errors.Is(ctxToUse.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
			result.Err = fmt.Errorf("test command timed out after %v", r.Timeout)
		} else {
			result.Err = fmt.Errorf("test command failed: %w", err)
		}
	}

	return result
}
