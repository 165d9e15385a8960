// Package changes detects which workspaces changed since a git reference.
// It is a thin collaborator around `git diff`: the core consumes only the
// resulting workspace names, via the graph's affected-set computation.
package changes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/graph"
)

// ChangedFiles returns the repo-relative paths reported by
// `git diff --name-only <since>` in projectRoot.
func ChangedFiles(ctx context.Context, projectRoot, since string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", since)
	cmd.Dir = projectRoot

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff --name-only %s: %w: %s",
			since, err, strings.TrimSpace(errOut.String()))
	}

	var files []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	ctxlog.FromContext(ctx).Debug("Change detection complete.",
		"since", since, "changed_files", len(files))
	return files, nil
}

// MapToWorkspaces maps changed file paths to workspace names by
// longest-prefix match against workspace root paths. Files outside every
// workspace are ignored. The result is sorted and duplicate-free.
func MapToWorkspaces(files []string, g *graph.Graph) []string {
	type root struct {
		name string
		path string
	}
	var roots []root
	for _, name := range g.Aliases() {
		ws, _ := g.Workspace(name)
		roots = append(roots, root{name: name, path: strings.TrimSuffix(ws.Path, "/")})
	}

	hit := make(map[string]struct{})
	for _, file := range files {
		var bestName string
		bestLen := -1
		for _, r := range roots {
			if file != r.path && !strings.HasPrefix(file, r.path+"/") {
				continue
			}
			if len(r.path) > bestLen {
				bestName, bestLen = r.name, len(r.path)
			}
		}
		if bestLen >= 0 {
			hit[bestName] = struct{}{}
		}
	}

	changed := make([]string, 0, len(hit))
	for name := range hit {
		changed = append(changed, name)
	}
	sort.Strings(changed)
	return changed
}
