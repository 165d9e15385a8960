package graph

// Affected returns the changed workspaces plus every workspace transitively
// depending on one of them, sorted. Names not present in the graph are
// ignored. A changed workspace with no dependents is still part of the
// result, and the operation is a fixed point: Affected(Affected(x)) ==
// Affected(x).
func (g *Graph) Affected(changed []string) []string {
	result := make(map[string]struct{})
	queue := make([]string, 0, len(changed))
	for _, name := range changed {
		if !g.Has(name) {
			continue
		}
		if _, ok := result[name]; !ok {
			result[name] = struct{}{}
			queue = append(queue, name)
		}
	}

	// Multi-source forward traversal over the dependents relation.
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for dependent := range g.nodes[name].dependents {
			if _, ok := result[dependent]; !ok {
				result[dependent] = struct{}{}
				queue = append(queue, dependent)
			}
		}
	}

	return sortedKeys(result)
}
