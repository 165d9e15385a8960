package graph

import "sort"

// TopologicalOrder returns every workspace name in an order where each
// workspace appears after all of its dependencies (Kahn's algorithm). Ties
// are broken lexicographically so the order is deterministic.
//
// Returns ErrInconsistentGraph if the peel does not consume every node.
// Cycle detection at construction time makes that unreachable in practice;
// hitting it means the graph's internal state was corrupted.
func (g *Graph) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	var ready []string
	for name, n := range g.nodes {
		inDegree[name] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var unlocked []string
		for dependent := range g.nodes[name].dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		sort.Strings(unlocked)
		ready = mergeSorted(ready, unlocked)
	}

	if len(order) != len(g.nodes) {
		return nil, ErrInconsistentGraph
	}
	return order, nil
}

// ParallelBatches groups the workspaces into ordered batches where every
// dependency of a workspace lives in a strictly earlier batch. Workspaces
// within a batch share no dependency relation and may run concurrently.
// Members are sorted within each batch for deterministic output.
func (g *Graph) ParallelBatches() ([][]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	current := make(map[string]struct{})
	for name, n := range g.nodes {
		inDegree[name] = len(n.deps)
		if len(n.deps) == 0 {
			current[name] = struct{}{}
		}
	}

	var batches [][]string
	seen := 0
	for len(current) > 0 {
		batch := sortedKeys(current)
		batches = append(batches, batch)
		seen += len(batch)

		next := make(map[string]struct{})
		for _, name := range batch {
			for dependent := range g.nodes[name].dependents {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next[dependent] = struct{}{}
				}
			}
		}
		current = next
	}

	if seen != len(g.nodes) {
		return nil, ErrInconsistentGraph
	}
	return batches, nil
}

// mergeSorted merges two lexicographically sorted slices into one.
func mergeSorted(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
