package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/graph"
	"github.com/vk/workgrid/internal/procexec"
	"github.com/vk/workgrid/internal/reporter"
)

// Scheduler runs named commands across workspaces in dependency order. It
// holds read-only references to the graph and the configuration model; its
// only side effects are spawned subprocesses and reported events.
type Scheduler struct {
	graph       *graph.Graph
	model       *config.Model
	proc        procexec.Executor
	rep         reporter.Reporter
	projectRoot string

	// concurrency bounds simultaneously running tasks within a batch.
	concurrency int64

	// taskEnv is appended to every task's environment. The application
	// injects the resolution-override activation entries here, written
	// before any scheduling starts.
	taskEnv []string
}

// New creates a scheduler. The concurrency ceiling comes from the model;
// when unset it defaults to the workspace count, which leaves batches
// effectively unbounded.
func New(g *graph.Graph, model *config.Model, proc procexec.Executor, rep reporter.Reporter, projectRoot string, taskEnv []string) *Scheduler {
	concurrency := int64(model.Concurrency)
	if concurrency <= 0 {
		concurrency = int64(g.Len())
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		graph:       g,
		model:       model,
		proc:        proc,
		rep:         rep,
		projectRoot: projectRoot,
		concurrency: concurrency,
		taskEnv:     taskEnv,
	}
}

// RunAll executes the named command for every workspace, batch by batch. A
// non-nil filter restricts execution to its members. Batches are strictly
// sequential: if any task in a batch fails, the whole batch still settles,
// then the run aborts with a RunError and no later batch starts.
func (s *Scheduler) RunAll(ctx context.Context, command string, filter []string) (map[string]TaskResult, error) {
	logger := ctxlog.FromContext(ctx)

	batches, err := s.graph.ParallelBatches()
	if err != nil {
		return nil, err
	}
	batches = restrict(batches, filter)
	logger.Debug("RunAll: batches computed.", "command", command, "batch_count", len(batches))

	s.rep.RunStarted(command, batches)
	start := time.Now()

	results := make(map[string]TaskResult)
	for i, batch := range batches {
		s.rep.BatchStarted(i, len(batches), batch)
		logger.Debug("Running batch.", "index", i, "members", batch)

		var failed []string
		for _, res := range s.runBatch(ctx, batch, command) {
			results[res.Workspace] = res
			if !res.OK {
				failed = append(failed, res.Workspace)
			}
		}

		if len(failed) > 0 {
			sort.Strings(failed)
			logger.Error("Batch settled with failures, aborting run.",
				"command", command, "batch", i, "failed", failed)
			s.rep.RunFinished(command, time.Since(start), failed)
			return results, &RunError{Command: command, Failed: failed, Results: results}
		}
	}

	s.rep.RunFinished(command, time.Since(start), nil)
	return results, nil
}

// runBatch runs every member concurrently, bounded by the concurrency
// ceiling, and returns only after all of them have settled. There is no
// cancellation of siblings when one member fails.
func (s *Scheduler) runBatch(ctx context.Context, members []string, command string) []TaskResult {
	sem := semaphore.NewWeighted(s.concurrency)
	results := make([]TaskResult, len(members))

	var wg sync.WaitGroup
	for i, workspace := range members {
		wg.Add(1)
		go func(slot int, workspace string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[slot] = TaskResult{Workspace: workspace, Err: err}
				s.rep.TaskFailed(workspace, 0, err)
				return
			}
			defer sem.Release(1)
			results[slot] = s.RunTask(ctx, workspace, command)
		}(i, workspace)
	}
	wg.Wait()

	return results
}

// RunTask executes the named command for a single workspace. The command
// string comes from the workspace's overrides, then the shared defaults;
// with neither declared the task is a no-op success with zero duration.
// Subprocess failures are captured in the result, never returned as errors.
func (s *Scheduler) RunTask(ctx context.Context, workspace, command string) TaskResult {
	ws, ok := s.graph.Workspace(workspace)
	if !ok {
		err := fmt.Errorf("unknown workspace %q", workspace)
		s.rep.TaskFailed(workspace, 0, err)
		return TaskResult{Workspace: workspace, Err: err}
	}

	shell, ok := s.model.Command(ws, command)
	if !ok {
		s.rep.TaskSucceeded(workspace, 0, true)
		return TaskResult{Workspace: workspace, OK: true, Noop: true}
	}

	s.rep.TaskStarted(workspace, command)
	start := time.Now()
	err := s.proc.Run(ctx, procexec.Command{
		Shell: shell,
		Dir:   filepath.Join(s.projectRoot, filepath.FromSlash(ws.Path)),
		Env:   s.taskEnv,
	})
	duration := time.Since(start)

	if err != nil {
		s.rep.TaskFailed(workspace, duration, err)
		return TaskResult{Workspace: workspace, Duration: duration, Err: err}
	}
	s.rep.TaskSucceeded(workspace, duration, false)
	return TaskResult{Workspace: workspace, OK: true, Duration: duration}
}

// RunSingle executes the command for one workspace. With withDeps set, each
// direct dependency runs first, sequentially, in sorted order; a dependency
// failure aborts like any other task failure.
func (s *Scheduler) RunSingle(ctx context.Context, workspace, command string, withDeps bool) (map[string]TaskResult, error) {
	if !s.graph.Has(workspace) {
		return nil, fmt.Errorf("unknown workspace %q", workspace)
	}

	results := make(map[string]TaskResult)
	run := func(name string) error {
		res := s.RunTask(ctx, name, command)
		results[name] = res
		if !res.OK {
			return &RunError{Command: command, Failed: []string{name}, Results: results}
		}
		return nil
	}

	if withDeps {
		for _, dep := range s.graph.DependenciesOf(workspace) {
			if err := run(dep); err != nil {
				return results, err
			}
		}
	}
	if err := run(workspace); err != nil {
		return results, err
	}
	return results, nil
}

// RunAffected computes the affected set of the changed workspaces and runs
// the command over it.
func (s *Scheduler) RunAffected(ctx context.Context, changed []string, command string) (map[string]TaskResult, error) {
	affected := s.graph.Affected(changed)
	ctxlog.FromContext(ctx).Debug("RunAffected: affected set computed.",
		"changed", changed, "affected", affected)
	return s.RunAll(ctx, command, affected)
}

// restrict intersects each batch with the filter and drops batches that end
// up empty. A nil filter keeps everything.
func restrict(batches [][]string, filter []string) [][]string {
	if filter == nil {
		return batches
	}
	keep := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		keep[name] = struct{}{}
	}

	var out [][]string
	for _, batch := range batches {
		var members []string
		for _, name := range batch {
			if _, ok := keep[name]; ok {
				members = append(members, name)
			}
		}
		if len(members) > 0 {
			out = append(out, members)
		}
	}
	return out
}
