package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle indicates the declared dependencies form a cycle.
	ErrCycle = errors.New("dependency cycle detected")
	// ErrUnknownDependency indicates an edge to a workspace nobody declared.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrDuplicateIdentity indicates two workspaces share an alias or path.
	ErrDuplicateIdentity = errors.New("duplicate workspace identity")
	// ErrInconsistentGraph indicates an internal invariant violation: a
	// topological pass did not visit every node despite cycle detection
	// having passed earlier.
	ErrInconsistentGraph = errors.New("inconsistent graph")
)

// CycleError carries the full cycle path in visitation order, e.g.
// "@a -> @b -> @a". The first and last elements are the same workspace.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// UnknownDependencyError names the workspace whose declaration references a
// dependency no workspace provides.
type UnknownDependencyError struct {
	Workspace  string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("%s: workspace %q depends on undeclared workspace %q",
		ErrUnknownDependency.Error(), e.Workspace, e.Dependency)
}

func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// DuplicateIdentityError names the colliding identity. Field is "alias" or
// "path" depending on which attribute collided.
type DuplicateIdentityError struct {
	Field string
	Value string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s: %s %q declared by more than one workspace",
		ErrDuplicateIdentity.Error(), e.Field, e.Value)
}

func (e *DuplicateIdentityError) Unwrap() error { return ErrDuplicateIdentity }
