package resolve

import (
	"path/filepath"
	"strings"
)

// SplitSpecifier splits a bare import specifier into the package name and
// the remaining subpath. Scoped packages span two path segments:
//
//	"express"            → ("express", "")
//	"express/router"     → ("express", "router")
//	"@scope/name/lib/x"  → ("@scope/name", "lib/x")
func SplitSpecifier(specifier string) (pkg, subpath string) {
	segments := strings.Split(specifier, "/")
	take := 1
	if strings.HasPrefix(specifier, "@") && len(segments) >= 2 {
		take = 2
	}
	pkg = strings.Join(segments[:take], "/")
	subpath = strings.Join(segments[take:], "/")
	return pkg, subpath
}

// WorkspaceFor identifies the workspace owning a source file by
// longest-prefix match of the file path against the workspace roots.
// Workspace roots must not overlap for the match to be unambiguous.
func (a *Analysis) WorkspaceFor(file string) (string, bool) {
	var bestName string
	bestLen := -1
	for name, root := range a.Roots {
		if file != root && !strings.HasPrefix(file, root+string(filepath.Separator)) {
			continue
		}
		if len(root) > bestLen {
			bestName, bestLen = name, len(root)
		}
	}
	return bestName, bestLen >= 0
}

// Resolve is the pure redirect decision of the runtime override: given the
// importing file and a requested specifier, it returns the redirected
// location and true, or "" and false to fall through to standard resolution.
//
// Relative, absolute, and node:-prefixed specifiers bypass the override
// entirely. Bare built-in names carry no resolution-map entry and therefore
// fall through as well. Any subpath after the package name is preserved and
// reappended to the resolved location.
func (a *Analysis) Resolve(callerFile, specifier string) (string, bool) {
	if specifier == "" ||
		strings.HasPrefix(specifier, ".") ||
		strings.HasPrefix(specifier, "node:") ||
		filepath.IsAbs(specifier) {
		return "", false
	}

	workspace, ok := a.WorkspaceFor(callerFile)
	if !ok {
		return "", false
	}

	pkg, subpath := SplitSpecifier(specifier)
	res, ok := a.Map[workspace][pkg]
	if !ok {
		return "", false
	}
	if subpath == "" {
		return res.Path, true
	}
	return filepath.Join(res.Path, filepath.FromSlash(subpath)), true
}
