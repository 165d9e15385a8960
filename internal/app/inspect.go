package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	headline = color.New(color.Bold).SprintFunc()
	accent   = color.New(color.FgCyan).SprintFunc()
	warnTone = color.New(color.FgYellow).SprintFunc()
	muted    = color.New(color.Faint).SprintFunc()
)

// Conflicts analyzes every workspace and prints the cross-workspace version
// conflicts. Exits quietly when all workspaces agree.
func (a *App) Conflicts(ctx context.Context) error {
	analysis, err := a.analyze(ctx)
	if err != nil {
		return err
	}

	conflicts := analysis.Conflicts()
	if len(conflicts) == 0 {
		fmt.Fprintln(a.outW, "No version conflicts across workspaces.")
		return nil
	}

	packages := make([]string, 0, len(conflicts))
	for pkg := range conflicts {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	fmt.Fprintf(a.outW, "%s\n", headline(fmt.Sprintf("%d conflicting package(s)", len(packages))))
	for _, pkg := range packages {
		fmt.Fprintf(a.outW, "\n%s\n", accent(pkg))
		versions := make([]string, 0, len(conflicts[pkg]))
		for version := range conflicts[pkg] {
			versions = append(versions, version)
		}
		sort.Strings(versions)
		for _, version := range versions {
			fmt.Fprintf(a.outW, "  %s %s\n", warnTone(version),
				muted(strings.Join(conflicts[pkg][version], ", ")))
		}
	}
	return nil
}

// Explain prints the resolution of one package in the context of one
// workspace, flagging disagreement with other workspaces.
func (a *App) Explain(ctx context.Context, workspace, pkg string) error {
	analysis, err := a.analyze(ctx)
	if err != nil {
		return err
	}

	explanation, err := analysis.Explain(workspace, pkg)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%s resolves %s to %s\n  %s\n",
		headline(workspace), accent(pkg),
		explanation.Resolution.Version, muted(explanation.Resolution.Path))

	if len(explanation.Conflicting) == 0 {
		fmt.Fprintln(a.outW, "All workspaces agree on this version.")
		return nil
	}

	versions := make([]string, 0, len(explanation.Conflicting))
	for version := range explanation.Conflicting {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	for _, version := range versions {
		fmt.Fprintf(a.outW, "%s %s used by %s\n", warnTone("conflict:"), version,
			strings.Join(explanation.Conflicting[version], ", "))
	}
	return nil
}

// PrintGraph renders the dependency graph as parallel batches with each
// workspace's direct dependencies.
func (a *App) PrintGraph(ctx context.Context) error {
	batches, err := a.graph.ParallelBatches()
	if err != nil {
		return err
	}

	for i, batch := range batches {
		fmt.Fprintf(a.outW, "%s\n", muted(fmt.Sprintf("batch %d", i+1)))
		for _, name := range batch {
			deps := a.graph.DependenciesOf(name)
			if len(deps) == 0 {
				fmt.Fprintf(a.outW, "  %s\n", headline(name))
				continue
			}
			fmt.Fprintf(a.outW, "  %s %s %s\n", headline(name),
				muted("<-"), strings.Join(deps, ", "))
		}
	}
	return nil
}
