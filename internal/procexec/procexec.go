// Package procexec spawns workspace commands as subprocesses. It is the
// process-execution collaborator of the task scheduler: the scheduler owns
// batching and failure policy, this package only starts a command in a
// working directory with an augmented environment and reports the outcome.
package procexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	// Shell is the command line, run through `sh -c`.
	Shell string
	// Dir is the working directory.
	Dir string
	// Env holds extra environment entries appended to the parent's
	// environment ("KEY=value").
	Env []string
	// Stdout and Stderr receive the subprocess output. Nil writers default
	// to the parent's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs commands. Implementations must not retry or time out on
// their own; lifecycle policy belongs to the caller's context.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// Local runs commands on the local host.
type Local struct{}

// Run implements Executor. A non-zero exit is returned as an error carrying
// the tail of the captured stderr for diagnostics.
func (Local) Run(ctx context.Context, cmd Command) error {
	proc := exec.CommandContext(ctx, "sh", "-c", cmd.Shell)
	proc.Dir = cmd.Dir
	proc.Env = append(os.Environ(), cmd.Env...)

	stdout := cmd.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cmd.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var captured bytes.Buffer
	proc.Stdout = stdout
	proc.Stderr = io.MultiWriter(stderr, &captured)

	if err := proc.Run(); err != nil {
		detail := strings.TrimSpace(tail(captured.String(), 2048))
		if detail != "" {
			return fmt.Errorf("command %q failed: %w\n%s", cmd.Shell, err, detail)
		}
		return fmt.Errorf("command %q failed: %w", cmd.Shell, err)
	}
	return nil
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
