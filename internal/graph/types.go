package graph

import (
	"sort"

	"github.com/vk/workgrid/internal/config"
)

// Graph is the immutable workspace dependency graph. It is safe for
// concurrent readers because nothing mutates it after Build returns.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by workspace name.
	nodes map[string]*node
}

// node represents a single workspace in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using workspace
// names), not by direct struct manipulation.
type node struct {
	// ws is the workspace declaration this node was built from.
	ws config.Workspace
	// deps holds the set of workspace names this node depends on.
	deps map[string]struct{}
	// dependents holds the set of workspace names depending on this node.
	// Always the exact reverse of deps across the graph.
	dependents map[string]struct{}
}

// sortedKeys returns the keys of a string set in lexicographic order.
// Deterministic iteration keeps orderings and diagnostics stable.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
