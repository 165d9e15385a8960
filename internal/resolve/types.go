package resolve

import "sort"

// Resolution is the concrete installed version and location of one package
// as seen from one workspace.
type Resolution struct {
	Version string `json:"version"`
	Path    string `json:"resolvedPath"`
}

// Map is the resolution map: workspace name → package name → resolution.
// Built fresh on every analysis run, read-only afterwards.
type Map map[string]map[string]Resolution

// Conflicts groups the workspaces using each distinct resolved version of a
// package: package name → version → sorted workspace names. Only packages
// with two or more distinct versions are present.
type Conflicts map[string]map[string][]string

// conflictsOf derives the conflict records purely from the resolution map.
// Version equality is exact string equality; no semver range collapsing.
func conflictsOf(m Map) Conflicts {
	byPackage := make(map[string]map[string][]string)
	for workspace, packages := range m {
		for pkg, res := range packages {
			if byPackage[pkg] == nil {
				byPackage[pkg] = make(map[string][]string)
			}
			byPackage[pkg][res.Version] = append(byPackage[pkg][res.Version], workspace)
		}
	}

	conflicts := make(Conflicts)
	for pkg, versions := range byPackage {
		if len(versions) < 2 {
			continue
		}
		for _, workspaces := range versions {
			sort.Strings(workspaces)
		}
		conflicts[pkg] = versions
	}
	return conflicts
}

// Explanation is the answer to "which version of this package does this
// workspace use, and does anyone disagree".
type Explanation struct {
	Workspace  string
	Package    string
	Resolution Resolution

	// Conflicting maps every other resolved version of the package to the
	// workspaces using it. Empty when all workspaces agree.
	Conflicting map[string][]string
}
