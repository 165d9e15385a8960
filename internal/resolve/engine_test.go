package resolve

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/graph"
)

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// fakeReader serves canned manifests keyed by workspace root basename.
type fakeReader struct {
	manifests map[string]map[string]string
}

func (f fakeReader) Read(workspaceRoot string) (map[string]string, error) {
	m, ok := f.manifests[filepath.Base(workspaceRoot)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return m, nil
}

// fakeResolver serves canned resolutions keyed by workspace root basename
// and package name.
type fakeResolver struct {
	installed map[string]map[string]Resolution
}

func (f fakeResolver) Resolve(workspaceRoot, pkg string) (Resolution, error) {
	res, ok := f.installed[filepath.Base(workspaceRoot)][pkg]
	if !ok {
		return Resolution{}, os.ErrNotExist
	}
	return res, nil
}

func buildGraph(t *testing.T, workspaces ...config.Workspace) *graph.Graph {
	t.Helper()
	g, err := graph.Build(testCtx(), workspaces)
	require.NoError(t, err)
	return g
}

func TestAnalyze(t *testing.T) {
	g := buildGraph(t,
		config.Workspace{Alias: "@orders", Path: "packages/orders"},
		config.Workspace{Alias: "@cart", Path: "packages/cart"},
		config.Workspace{Alias: "@docs", Path: "packages/docs"},
	)

	reader := fakeReader{manifests: map[string]map[string]string{
		"orders": {
			"express": "^5.0.0",
			"@utils":  "workspace:*", // internal link, must be skipped
		},
		"cart": {
			"express": "^4.18.0",
			"lodash":  "^4.17.0", // declared but not installed
		},
		// "docs" has no manifest at all.
	}}
	resolver := fakeResolver{installed: map[string]map[string]Resolution{
		"orders": {"express": {Version: "5.0.0", Path: "/repo/packages/orders/node_modules/express"}},
		"cart":   {"express": {Version: "4.18.3", Path: "/repo/node_modules/express"}},
	}}

	engine := New(g, "/repo", reader, resolver)
	analysis, err := engine.Analyze(testCtx())
	require.NoError(t, err)

	want := Map{
		"@orders": {"express": {Version: "5.0.0", Path: "/repo/packages/orders/node_modules/express"}},
		"@cart":   {"express": {Version: "4.18.3", Path: "/repo/node_modules/express"}},
	}
	if diff := cmp.Diff(want, analysis.Map); diff != "" {
		t.Fatalf("resolution map mismatch (-want +got):\n%s", diff)
	}

	t.Run("missing manifest is a soft skip", func(t *testing.T) {
		_, analyzed := analysis.Map["@docs"]
		assert.False(t, analyzed)
	})

	t.Run("workspace roots are recorded", func(t *testing.T) {
		assert.Equal(t, filepath.Join("/repo", "packages", "orders"), analysis.Roots["@orders"])
	})
}

func TestConflicts(t *testing.T) {
	t.Run("distinct versions produce one record", func(t *testing.T) {
		analysis := &Analysis{Map: Map{
			"@orders": {"express": {Version: "5.0.0", Path: "/a"}},
			"@cart":   {"express": {Version: "4.18.3", Path: "/b"}},
			"@docs":   {"lodash": {Version: "4.17.21", Path: "/c"}},
		}}

		conflicts := analysis.Conflicts()
		require.Len(t, conflicts, 1)
		assert.Equal(t, map[string][]string{
			"5.0.0":  {"@orders"},
			"4.18.3": {"@cart"},
		}, conflicts["express"])
	})

	t.Run("agreement produces no record", func(t *testing.T) {
		analysis := &Analysis{Map: Map{
			"@orders": {"express": {Version: "5.0.0", Path: "/a"}},
			"@cart":   {"express": {Version: "5.0.0", Path: "/b"}},
		}}
		assert.Empty(t, analysis.Conflicts())
	})

	t.Run("version groups invert the per-workspace map", func(t *testing.T) {
		analysis := &Analysis{Map: Map{
			"@a": {"p": {Version: "1.0.0"}},
			"@b": {"p": {Version: "2.0.0"}},
			"@c": {"p": {Version: "1.0.0"}},
		}}
		conflicts := analysis.Conflicts()
		assert.Equal(t, []string{"@a", "@c"}, conflicts["p"]["1.0.0"])
		assert.Equal(t, []string{"@b"}, conflicts["p"]["2.0.0"])
	})
}

func TestExplain(t *testing.T) {
	analysis := &Analysis{Map: Map{
		"@orders": {"express": {Version: "5.0.0", Path: "/a"}},
		"@cart":   {"express": {Version: "4.18.3", Path: "/b"}},
	}}

	t.Run("reports version and flags the conflict", func(t *testing.T) {
		explanation, err := analysis.Explain("@orders", "express")
		require.NoError(t, err)
		assert.Equal(t, "5.0.0", explanation.Resolution.Version)
		assert.Equal(t, map[string][]string{"4.18.3": {"@cart"}}, explanation.Conflicting)
	})

	t.Run("unresolved pair fails with NotResolved", func(t *testing.T) {
		_, err := analysis.Explain("@orders", "lodash")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotResolved)

		var notResolved *NotResolvedError
		require.ErrorAs(t, err, &notResolved)
		assert.Equal(t, "@orders", notResolved.Workspace)
		assert.Equal(t, "lodash", notResolved.Package)
	})
}

func TestFileCollaborators(t *testing.T) {
	root := t.TempDir()
	wsDir := filepath.Join(root, "packages", "app")
	require.NoError(t, os.MkdirAll(wsDir, 0o755))

	writeFile := func(path, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	writeFile(filepath.Join(wsDir, "package.json"), `{
		"name": "@demo/app",
		"dependencies": {"express": "^5.0.0", "@demo/utils": "workspace:*"},
		"devDependencies": {"typescript": "^5.4.0"}
	}`)
	// express is installed locally, typescript is hoisted to the root.
	writeFile(filepath.Join(wsDir, "node_modules", "express", "package.json"), `{"version": "5.0.0"}`)
	writeFile(filepath.Join(root, "node_modules", "typescript", "package.json"), `{"version": "5.4.5"}`)

	t.Run("manifest reader merges dependency sections", func(t *testing.T) {
		declared, err := FileManifestReader{}.Read(wsDir)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"express":     "^5.0.0",
			"@demo/utils": "workspace:*",
			"typescript":  "^5.4.0",
		}, declared)
	})

	t.Run("missing manifest maps to os.ErrNotExist", func(t *testing.T) {
		_, err := FileManifestReader{}.Read(filepath.Join(root, "packages", "ghost"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	resolver := NodeModulesResolver{ProjectRoot: root}

	t.Run("nearest node_modules wins", func(t *testing.T) {
		res, err := resolver.Resolve(wsDir, "express")
		require.NoError(t, err)
		assert.Equal(t, "5.0.0", res.Version)
		assert.Equal(t, filepath.Join(wsDir, "node_modules", "express"), res.Path)
	})

	t.Run("hoisted install is found by walking up", func(t *testing.T) {
		res, err := resolver.Resolve(wsDir, "typescript")
		require.NoError(t, err)
		assert.Equal(t, "5.4.5", res.Version)
		assert.Equal(t, filepath.Join(root, "node_modules", "typescript"), res.Path)
	})

	t.Run("uninstalled package maps to os.ErrNotExist", func(t *testing.T) {
		_, err := resolver.Resolve(wsDir, "left-pad")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
