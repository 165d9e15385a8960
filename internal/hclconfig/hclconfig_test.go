package hclconfig

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/workgrid/internal/ctxlog"
)

const sampleProject = `workgrid {
  package_manager = "pnpm"
  concurrency     = 4
}

commands = {
  build = "npm run build"
  start = "npm run start"
}

workspace "packages/utils" {
  alias = "@utils"
}

workspace "packages/orders" {
  alias      = "@orders"
  depends_on = ["@utils"]

  commands = {
    build = "tsc -p ."
  }

  watch = ["src"]
}
`

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workgrid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full project file", func(t *testing.T) {
		model, err := NewLoader().Load(testCtx(), writeProject(t, sampleProject))
		require.NoError(t, err)

		assert.Equal(t, "pnpm", model.PackageManager)
		assert.Equal(t, 4, model.Concurrency)
		assert.Equal(t, "npm run build", model.DefaultCommands["build"])

		require.Len(t, model.Workspaces, 2)
		orders := model.Workspaces[1]
		assert.Equal(t, "@orders", orders.Name())
		assert.Equal(t, "packages/orders", orders.Path)
		assert.Equal(t, []string{"@utils"}, orders.DependsOn)
		assert.Equal(t, "tsc -p .", orders.Commands["build"])
		assert.Equal(t, []string{"src"}, orders.Watch)
	})

	t.Run("settings block and commands are optional", func(t *testing.T) {
		model, err := NewLoader().Load(testCtx(), writeProject(t, `workspace "pkg" {}`))
		require.NoError(t, err)
		assert.Equal(t, "npm", model.PackageManager)
		assert.Zero(t, model.Concurrency)
		require.Len(t, model.Workspaces, 1)
		assert.Equal(t, "pkg", model.Workspaces[0].Name())
	})

	t.Run("malformed file is rejected", func(t *testing.T) {
		_, err := NewLoader().Load(testCtx(), writeProject(t, `workspace "a" {`))
		assert.Error(t, err)
	})

	t.Run("negative concurrency is rejected", func(t *testing.T) {
		_, err := NewLoader().Load(testCtx(), writeProject(t, `workgrid { concurrency = -1 }`))
		assert.Error(t, err)
	})
}

func TestEditDependsOn(t *testing.T) {
	t.Run("add creates the edge and survives a reload", func(t *testing.T) {
		path := writeProject(t, sampleProject)
		require.NoError(t, AddDependency(testCtx(), path, "@utils", "@orders"))

		model, err := NewLoader().Load(testCtx(), path)
		require.NoError(t, err)
		utils, ok := model.Workspace("@utils")
		require.True(t, ok)
		assert.Equal(t, []string{"@orders"}, utils.DependsOn)

		// Untouched declarations survive the rewrite.
		orders, _ := model.Workspace("@orders")
		assert.Equal(t, "tsc -p .", orders.Commands["build"])
	})

	t.Run("add rejects an existing edge", func(t *testing.T) {
		path := writeProject(t, sampleProject)
		err := AddDependency(testCtx(), path, "@orders", "@utils")
		assert.ErrorContains(t, err, "already depends on")
	})

	t.Run("add rejects unknown workspaces", func(t *testing.T) {
		path := writeProject(t, sampleProject)
		assert.Error(t, AddDependency(testCtx(), path, "@ghost", "@utils"))
		assert.Error(t, AddDependency(testCtx(), path, "@utils", "@ghost"))
	})

	t.Run("remove deletes the edge", func(t *testing.T) {
		path := writeProject(t, sampleProject)
		require.NoError(t, RemoveDependency(testCtx(), path, "@orders", "@utils"))

		model, err := NewLoader().Load(testCtx(), path)
		require.NoError(t, err)
		orders, _ := model.Workspace("@orders")
		assert.Empty(t, orders.DependsOn)
	})

	t.Run("remove rejects a missing edge", func(t *testing.T) {
		path := writeProject(t, sampleProject)
		err := RemoveDependency(testCtx(), path, "@utils", "@orders")
		assert.ErrorContains(t, err, "does not depend on")
	})
}
