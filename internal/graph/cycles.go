package graph

// visit states for the depth-first cycle search.
const (
	unvisited = iota
	// onStack marks nodes in the current recursion stack; revisiting one
	// means the dependency relation loops back on itself.
	onStack
	finished
)

// detectCycles runs a depth-first traversal over the dependency edges of
// every node, including disconnected subgraphs. On finding a node already on
// the recursion stack it returns a CycleError whose path reads left to right
// along the dependency relation, starting and ending at the revisited node.
func (g *Graph) detectCycles() error {
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(name string) *CycleError
	visit = func(name string) *CycleError {
		state[name] = onStack
		stack = append(stack, name)

		for _, dep := range sortedKeys(g.nodes[name].deps) {
			switch state[dep] {
			case onStack:
				// Slice the stack from the first occurrence of dep so the
				// reported path is exactly the cycle, not the whole walk.
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
						break
					}
				}
				path := append(append([]string{}, stack[start:]...), dep)
				return &CycleError{Path: path}
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = finished
		return nil
	}

	// Sorted iteration keeps the reported cycle stable across runs.
	names := make(map[string]struct{}, len(g.nodes))
	for name := range g.nodes {
		names[name] = struct{}{}
	}
	for _, name := range sortedKeys(names) {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}
