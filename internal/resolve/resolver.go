package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ModuleResolver resolves the concrete installed version and location of a
// package as reachable from a workspace's context.
type ModuleResolver interface {
	Resolve(workspaceRoot, pkg string) (Resolution, error)
}

// NodeModulesResolver walks node_modules directories the way Node's
// resolution algorithm does: the workspace's own node_modules first, then
// each ancestor up to and including the project root. The first installed
// copy found wins, which matches what a require() from that workspace would
// load.
type NodeModulesResolver struct {
	// ProjectRoot is the absolute path the upward walk stops at.
	ProjectRoot string
}

// Resolve implements ModuleResolver.
func (r NodeModulesResolver) Resolve(workspaceRoot, pkg string) (Resolution, error) {
	dir := workspaceRoot
	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
		version, err := installedVersion(candidate)
		if err == nil {
			return Resolution{Version: version, Path: candidate}, nil
		}
		if !os.IsNotExist(err) {
			return Resolution{}, err
		}

		if dir == r.ProjectRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Resolution{}, fmt.Errorf("package %q not installed for workspace %s: %w",
		pkg, workspaceRoot, os.ErrNotExist)
}

// installedVersion reads the concrete version from an installed package's
// own manifest.
func installedVersion(pkgDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return "", err
	}
	version := gjson.GetBytes(data, "version").String()
	if version == "" {
		return "", fmt.Errorf("installed package at %s has no version field", pkgDir)
	}
	return version, nil
}
