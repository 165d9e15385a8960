package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskResult records one (workspace, command) execution. Immutable after
// creation.
type TaskResult struct {
	Workspace string
	OK        bool
	// Noop marks a vacuous success: neither the workspace nor the shared
	// defaults declared the command.
	Noop     bool
	Duration time.Duration
	// Err carries the failure detail when OK is false.
	Err error
}

// ErrRunFailed indicates a batch contained at least one failed task.
var ErrRunFailed = errors.New("run failed")

// RunError aborts a run after a batch settles with failures. Results holds
// every task executed up to and including the aborting batch, so callers can
// report the complete picture without re-running succeeded workspaces.
type RunError struct {
	Command string
	Failed  []string
	Results map[string]TaskResult
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: command %q failed in %s",
		ErrRunFailed.Error(), e.Command, strings.Join(e.Failed, ", "))
}

func (e *RunError) Unwrap() error { return ErrRunFailed }
