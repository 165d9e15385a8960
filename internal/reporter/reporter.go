// Package reporter is the injectable progress observer for task execution.
// Core packages never write to the console themselves; they report events
// here, and the application decides how those events are rendered.
package reporter

import "time"

// Reporter receives execution progress events. Implementations must be safe
// for concurrent use: tasks within a batch finish in arbitrary order.
type Reporter interface {
	// RunStarted announces a command run over the given batches.
	RunStarted(command string, batches [][]string)
	// BatchStarted announces one batch. index is zero-based.
	BatchStarted(index, total int, members []string)
	// TaskStarted announces one workspace task beginning execution.
	TaskStarted(workspace, command string)
	// TaskSucceeded reports a completed task. noop marks tasks that had no
	// command to run and succeeded vacuously.
	TaskSucceeded(workspace string, duration time.Duration, noop bool)
	// TaskFailed reports a failed task.
	TaskFailed(workspace string, duration time.Duration, err error)
	// RunFinished closes the run. failed is empty on success; otherwise it
	// names the workspaces whose tasks failed in the aborting batch.
	RunFinished(command string, duration time.Duration, failed []string)
}

// Silent discards all events. Useful in tests and for machine-facing
// commands whose stdout must stay clean.
type Silent struct{}

func (Silent) RunStarted(string, [][]string)                 {}
func (Silent) BatchStarted(int, int, []string)               {}
func (Silent) TaskStarted(string, string)                    {}
func (Silent) TaskSucceeded(string, time.Duration, bool)     {}
func (Silent) TaskFailed(string, time.Duration, error)       {}
func (Silent) RunFinished(string, time.Duration, []string)   {}
