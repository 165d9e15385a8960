package app_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/vk/workgrid/internal/app"
	"github.com/vk/workgrid/internal/hclconfig"
)

const testProject = `workgrid {
  package_manager = "npm"
}

commands = {
  build = "true"
}

workspace "packages/utils" {
  alias = "@utils"
}

workspace "packages/orders" {
  alias      = "@orders"
  depends_on = ["@utils"]
}
`

// scaffold writes a minimal project on disk: the project file plus a
// manifest per workspace.
func scaffold(t *testing.T) (projectRoot, configPath string) {
	t.Helper()
	projectRoot = t.TempDir()
	configPath = filepath.Join(projectRoot, "workgrid.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(testProject), 0o644))

	manifests := map[string]string{
		"packages/utils":  `{"name": "@acme/utils", "version": "1.0.0"}`,
		"packages/orders": `{"name": "@acme/orders", "version": "1.0.0", "dependencies": {"@acme/utils": "workspace:*"}}`,
	}
	for path, body := range manifests {
		dir := filepath.Join(projectRoot, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(body+"\n"), 0o644))
	}
	return projectRoot, configPath
}

func newTestApp(t *testing.T, configPath string, outW io.Writer) *app.App {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{ConfigPath: configPath})
	require.NoError(t, err)
	a, err := app.NewApp(outW, io.Discard, cfg, hclconfig.NewLoader())
	require.NoError(t, err)
	return a
}

func TestNewApp(t *testing.T) {
	t.Run("loads the project and builds the graph", func(t *testing.T) {
		_, configPath := scaffold(t)
		a := newTestApp(t, configPath, io.Discard)

		assert.Equal(t, 2, a.Graph().Len())
		assert.Equal(t, []string{"@utils"}, a.Graph().DependenciesOf("@orders"))
	})

	t.Run("rejects a missing project file", func(t *testing.T) {
		cfg, err := app.NewConfig(app.Config{ConfigPath: filepath.Join(t.TempDir(), "nope", "workgrid.hcl")})
		require.NoError(t, err)
		_, err = app.NewApp(io.Discard, io.Discard, cfg, hclconfig.NewLoader())
		require.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	projectRoot, configPath := scaffold(t)
	var out bytes.Buffer
	a := newTestApp(t, configPath, &out)

	require.NoError(t, a.Build(a.Context(), "", nil))

	// The run writes the resolution artifact before the first task starts.
	assert.FileExists(t, filepath.Join(projectRoot, ".workgrid", "resolutions.json"))
	assert.FileExists(t, filepath.Join(projectRoot, ".workgrid", "preload.cjs"))
	assert.Contains(t, out.String(), "@utils")
	assert.Contains(t, out.String(), "@orders")
}

func TestAddAndRemove(t *testing.T) {
	projectRoot, configPath := scaffold(t)
	a := newTestApp(t, configPath, io.Discard)

	require.NoError(t, a.Add(a.Context(), "@utils", "@orders", false, false, ""))

	manifest, err := os.ReadFile(filepath.Join(projectRoot, "packages", "utils", "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "workspace:*", gjson.GetBytes(manifest, `dependencies.\@acme/orders`).String())

	reloaded, err := hclconfig.NewLoader().Load(a.Context(), configPath)
	require.NoError(t, err)
	utils, ok := reloaded.Workspace("@utils")
	require.True(t, ok)
	assert.Equal(t, []string{"@orders"}, utils.DependsOn)

	require.NoError(t, a.Remove(a.Context(), "@utils", "@orders"))

	manifest, err = os.ReadFile(filepath.Join(projectRoot, "packages", "utils", "package.json"))
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(manifest, `dependencies.\@acme/orders`).Exists())
}

func TestAddVersionRanges(t *testing.T) {
	_, configPath := scaffold(t)

	t.Run("explicit version gets a caret range", func(t *testing.T) {
		a := newTestApp(t, configPath, io.Discard)
		require.NoError(t, a.Remove(a.Context(), "@orders", "@utils"))

		a = newTestApp(t, configPath, io.Discard)
		require.NoError(t, a.Add(a.Context(), "@orders", "@utils", true, false, "2.1.0"))

		root := filepath.Dir(configPath)
		manifest, err := os.ReadFile(filepath.Join(root, "packages", "orders", "package.json"))
		require.NoError(t, err)
		assert.Equal(t, "^2.1.0", gjson.GetBytes(manifest, `devDependencies.\@acme/utils`).String())
	})
}

func TestStartUnknownWorkspace(t *testing.T) {
	_, configPath := scaffold(t)
	a := newTestApp(t, configPath, io.Discard)
	require.ErrorContains(t, a.Start(a.Context(), "@nope", false), "unknown workspace")
}
