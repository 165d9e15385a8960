package changes

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	g, err := graph.Build(ctx, []config.Workspace{
		{Alias: "@utils", Path: "packages/utils"},
		{Alias: "@orders", Path: "packages/orders"},
		{Alias: "@orders-api", Path: "packages/orders/api"},
	})
	require.NoError(t, err)
	return g
}

func TestMapToWorkspaces(t *testing.T) {
	g := testGraph(t)

	t.Run("files map to their workspace", func(t *testing.T) {
		changed := MapToWorkspaces([]string{
			"packages/utils/src/index.ts",
			"packages/utils/package.json",
			"packages/orders/src/orders.ts",
		}, g)
		assert.Equal(t, []string{"@orders", "@utils"}, changed)
	})

	t.Run("longest prefix wins for nested roots", func(t *testing.T) {
		changed := MapToWorkspaces([]string{"packages/orders/api/handler.ts"}, g)
		assert.Equal(t, []string{"@orders-api"}, changed)
	})

	t.Run("shared name prefix without a path boundary does not match", func(t *testing.T) {
		changed := MapToWorkspaces([]string{"packages/utils-legacy/index.ts"}, g)
		assert.Empty(t, changed)
	})

	t.Run("files outside every workspace are ignored", func(t *testing.T) {
		changed := MapToWorkspaces([]string{"README.md", "scripts/release.sh"}, g)
		assert.Empty(t, changed)
	})
}
