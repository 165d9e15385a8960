package resolve

import (
	"errors"
	"fmt"
)

// ErrNotResolved indicates no resolution exists for a workspace/package pair.
var ErrNotResolved = errors.New("not resolved")

// NotResolvedError names the pair the caller asked about.
type NotResolvedError struct {
	Workspace string
	Package   string
}

func (e *NotResolvedError) Error() string {
	return fmt.Sprintf("%s: no resolution for package %q in workspace %q",
		ErrNotResolved.Error(), e.Package, e.Workspace)
}

func (e *NotResolvedError) Unwrap() error { return ErrNotResolved }
