package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/graph"
)

// Engine analyzes every workspace's installed dependency tree. It holds a
// read-only reference to the workspace graph and performs no I/O beyond what
// its collaborators do.
type Engine struct {
	graph       *graph.Graph
	projectRoot string
	reader      ManifestReader
	resolver    ModuleResolver
}

// New creates a resolution engine. projectRoot must be absolute; reader and
// resolver are the manifest and module-resolution collaborators (the
// production pair is FileManifestReader and NodeModulesResolver).
func New(g *graph.Graph, projectRoot string, reader ManifestReader, resolver ModuleResolver) *Engine {
	return &Engine{graph: g, projectRoot: projectRoot, reader: reader, resolver: resolver}
}

// Analysis is the outcome of one analysis run: the resolution map plus the
// absolute root path of every workspace. It is written once and read-only
// afterwards.
type Analysis struct {
	Map Map

	// Roots maps each workspace name to its absolute root path. Used for
	// caller identification in the runtime override and persisted in the
	// artifact so the preload can do the same matching.
	Roots map[string]string
}

// Analyze inspects every workspace's manifest and resolves each declared
// external dependency to its installed version and location. A workspace
// without a manifest is skipped with a warning; so is an individual
// dependency that is not installed. Entries using the workspace protocol are
// internal links and never resolved.
func (e *Engine) Analyze(ctx context.Context) (*Analysis, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Analyze: starting dependency analysis.", "workspace_count", e.graph.Len())

	analysis := &Analysis{
		Map:   make(Map, e.graph.Len()),
		Roots: make(map[string]string, e.graph.Len()),
	}

	for _, name := range e.graph.Aliases() {
		ws, _ := e.graph.Workspace(name)
		root := filepath.Join(e.projectRoot, filepath.FromSlash(ws.Path))
		analysis.Roots[name] = root

		declared, err := e.reader.Read(root)
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Workspace has no manifest, skipping analysis.", "workspace", name, "root", root)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest of workspace %s: %w", name, err)
		}

		packages := make([]string, 0, len(declared))
		for pkg := range declared {
			packages = append(packages, pkg)
		}
		sort.Strings(packages)

		resolved := make(map[string]Resolution, len(declared))
		for _, pkg := range packages {
			if isInternalLink(declared[pkg]) {
				continue
			}
			res, err := e.resolver.Resolve(root, pkg)
			if errors.Is(err, os.ErrNotExist) {
				logger.Warn("Declared dependency is not installed, skipping.",
					"workspace", name, "package", pkg)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("resolving %s for workspace %s: %w", pkg, name, err)
			}
			resolved[pkg] = res
		}
		analysis.Map[name] = resolved
		logger.Debug("Workspace analyzed.", "workspace", name, "resolved", len(resolved))
	}

	logger.Debug("Analyze: analysis complete.", "conflicts", len(analysis.Conflicts()))
	return analysis, nil
}

// Conflicts derives the conflict records from the resolution map. No I/O.
func (a *Analysis) Conflicts() Conflicts {
	return conflictsOf(a.Map)
}

// Explain returns the resolution of a package in the context of a workspace,
// cross-referenced against the conflict records so the caller can report
// whether other workspaces use a different version.
func (a *Analysis) Explain(workspace, pkg string) (Explanation, error) {
	res, ok := a.Map[workspace][pkg]
	if !ok {
		return Explanation{}, &NotResolvedError{Workspace: workspace, Package: pkg}
	}

	explanation := Explanation{
		Workspace:  workspace,
		Package:    pkg,
		Resolution: res,
	}
	if versions, conflicted := a.Conflicts()[pkg]; conflicted {
		others := make(map[string][]string, len(versions)-1)
		for version, workspaces := range versions {
			if version != res.Version {
				others[version] = workspaces
			}
		}
		explanation.Conflicting = others
	}
	return explanation, nil
}
