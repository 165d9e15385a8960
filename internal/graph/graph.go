package graph

import (
	"context"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
)

// Build constructs a complete, validated dependency graph from workspace
// declarations. It fails on duplicate aliases or paths, on dependency edges
// that name no declared workspace, and on cycles. The returned graph is
// immutable.
func Build(ctx context.Context, workspaces []config.Workspace) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "workspace_count", len(workspaces))

	g := &Graph{nodes: make(map[string]*node, len(workspaces))}

	// First pass: create all nodes, enforcing identity uniqueness.
	seenPaths := make(map[string]struct{}, len(workspaces))
	for _, ws := range workspaces {
		name := ws.Name()
		if _, exists := g.nodes[name]; exists {
			return nil, &DuplicateIdentityError{Field: "alias", Value: name}
		}
		if _, exists := seenPaths[ws.Path]; exists {
			return nil, &DuplicateIdentityError{Field: "path", Value: ws.Path}
		}
		seenPaths[ws.Path] = struct{}{}
		g.nodes[name] = &node{
			ws:         ws,
			deps:       make(map[string]struct{}, len(ws.DependsOn)),
			dependents: make(map[string]struct{}),
		}
	}
	logger.Debug("Build: node creation complete.", "node_count", len(g.nodes))

	// Second pass: link forward and reverse edges.
	for name, n := range g.nodes {
		for _, dep := range n.ws.DependsOn {
			target, ok := g.nodes[dep]
			if !ok {
				return nil, &UnknownDependencyError{Workspace: name, Dependency: dep}
			}
			n.deps[dep] = struct{}{}
			target.dependents[name] = struct{}{}
		}
	}
	logger.Debug("Build: edge linking complete.")

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: cycle detection passed.")

	return g, nil
}

// Has reports whether a workspace with the given name exists in the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Workspace returns the declaration of the named workspace. The second
// return value reports whether it exists.
func (g *Graph) Workspace(name string) (config.Workspace, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return config.Workspace{}, false
	}
	return n.ws, true
}

// Aliases returns every workspace name in the graph, sorted.
func (g *Graph) Aliases() []string {
	names := make(map[string]struct{}, len(g.nodes))
	for name := range g.nodes {
		names[name] = struct{}{}
	}
	return sortedKeys(names)
}

// DependenciesOf returns the sorted names of the workspaces the named one
// depends on. Unknown names yield an empty slice.
func (g *Graph) DependenciesOf(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(n.deps)
}

// DependentsOf returns the sorted names of the workspaces depending on the
// named one. Unknown names yield an empty slice.
func (g *Graph) DependentsOf(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(n.dependents)
}

// Len returns the number of workspaces in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
