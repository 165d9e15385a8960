package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o644))
	return dir
}

func readManifest(t *testing.T, dir string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	var root map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &root))
	return root
}

func section(t *testing.T, root map[string]json.RawMessage, name string) map[string]string {
	t.Helper()
	deps := make(map[string]string)
	if raw, ok := root[name]; ok {
		require.NoError(t, json.Unmarshal(raw, &deps))
	}
	return deps
}

func TestAddEntry(t *testing.T) {
	t.Run("adds to dependencies", func(t *testing.T) {
		dir := writeManifest(t, `{"name": "@demo/app", "dependencies": {"express": "^5.0.0"}}`)
		require.NoError(t, AddEntry(dir, "@demo/utils", "workspace:*", false))

		root := readManifest(t, dir)
		deps := section(t, root, "dependencies")
		assert.Equal(t, "workspace:*", deps["@demo/utils"])
		assert.Equal(t, "^5.0.0", deps["express"])
	})

	t.Run("dev flag targets devDependencies", func(t *testing.T) {
		dir := writeManifest(t, `{"name": "@demo/app"}`)
		require.NoError(t, AddEntry(dir, "@demo/testkit", "workspace:*", true))

		root := readManifest(t, dir)
		assert.Equal(t, "workspace:*", section(t, root, "devDependencies")["@demo/testkit"])
		assert.Empty(t, section(t, root, "dependencies"))
	})

	t.Run("unknown fields survive the round trip", func(t *testing.T) {
		dir := writeManifest(t, `{"name": "@demo/app", "scripts": {"build": "tsc"}, "private": true}`)
		require.NoError(t, AddEntry(dir, "lodash", "^4.17.21", false))

		root := readManifest(t, dir)
		assert.JSONEq(t, `{"build": "tsc"}`, string(root["scripts"]))
		assert.JSONEq(t, `true`, string(root["private"]))
	})
}

func TestPackageName(t *testing.T) {
	t.Run("reads the declared name", func(t *testing.T) {
		dir := writeManifest(t, `{"name": "@demo/app", "version": "1.0.0"}`)
		name, err := PackageName(dir)
		require.NoError(t, err)
		assert.Equal(t, "@demo/app", name)
	})

	t.Run("missing name is an error", func(t *testing.T) {
		dir := writeManifest(t, `{"version": "1.0.0"}`)
		_, err := PackageName(dir)
		assert.Error(t, err)
	})

	t.Run("missing manifest is an error", func(t *testing.T) {
		_, err := PackageName(t.TempDir())
		assert.Error(t, err)
	})
}

func TestRemoveEntry(t *testing.T) {
	t.Run("removes from either section", func(t *testing.T) {
		dir := writeManifest(t, `{
			"dependencies": {"express": "^5.0.0"},
			"devDependencies": {"typescript": "^5.4.0"}
		}`)
		require.NoError(t, RemoveEntry(dir, "typescript"))

		root := readManifest(t, dir)
		assert.Empty(t, section(t, root, "devDependencies"))
		assert.Equal(t, "^5.0.0", section(t, root, "dependencies")["express"])
	})

	t.Run("empty section is dropped entirely", func(t *testing.T) {
		dir := writeManifest(t, `{"dependencies": {"express": "^5.0.0"}}`)
		require.NoError(t, RemoveEntry(dir, "express"))

		root := readManifest(t, dir)
		_, exists := root["dependencies"]
		assert.False(t, exists)
	})

	t.Run("missing entry is an error", func(t *testing.T) {
		dir := writeManifest(t, `{"dependencies": {}}`)
		assert.Error(t, RemoveEntry(dir, "express"))
	})
}
