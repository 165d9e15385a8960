package app

import (
	"context"
	"fmt"

	"github.com/vk/workgrid/internal/changes"
	"github.com/vk/workgrid/internal/ctxlog"
)

// RunCommand executes a named command over the workspace graph. since, when
// non-empty, restricts the run to the affected set of the workspaces changed
// since that git reference; filter, when non-nil, restricts it further.
func (a *App) RunCommand(ctx context.Context, command, since string, filter []string) error {
	logger := ctxlog.FromContext(ctx)

	if since != "" {
		files, err := changes.ChangedFiles(ctx, a.projectRoot, since)
		if err != nil {
			return err
		}
		changed := changes.MapToWorkspaces(files, a.graph)
		affected := a.graph.Affected(changed)
		logger.Debug("Restricting run to affected workspaces.",
			"since", since, "changed", changed, "affected", affected)
		filter = intersect(affected, filter)
	}

	sched, err := a.scheduler(ctx)
	if err != nil {
		return err
	}
	_, err = sched.RunAll(ctx, command, filter)
	return err
}

// Build runs the build command; the workhorse behind `workgrid build`.
func (a *App) Build(ctx context.Context, since string, filter []string) error {
	return a.RunCommand(ctx, "build", since, filter)
}

// Live runs every workspace's live command through the same batch machinery.
// Live processes are typically long-running; failure semantics are unchanged.
func (a *App) Live(ctx context.Context, filter []string) error {
	return a.RunCommand(ctx, "live", "", filter)
}

// Start runs the start command for a single workspace, optionally running
// each direct dependency's start command sequentially first.
func (a *App) Start(ctx context.Context, workspace string, withDeps bool) error {
	if !a.graph.Has(workspace) {
		return fmt.Errorf("unknown workspace %q", workspace)
	}
	sched, err := a.scheduler(ctx)
	if err != nil {
		return err
	}
	_, err = sched.RunSingle(ctx, workspace, "start", withDeps)
	return err
}

// intersect restricts base to the members of filter. A nil filter keeps
// base; a nil base yields the filter itself.
func intersect(base, filter []string) []string {
	if filter == nil {
		return base
	}
	if base == nil {
		return filter
	}
	keep := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		keep[name] = struct{}{}
	}
	var out []string
	for _, name := range base {
		if _, ok := keep[name]; ok {
			out = append(out, name)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
