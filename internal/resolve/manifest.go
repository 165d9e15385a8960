package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// workspaceProtocol marks a manifest entry as an internal workspace link
// rather than an external package; such entries are skipped by analysis.
const workspaceProtocol = "workspace:"

// ManifestReader reads a workspace's declared dependencies.
type ManifestReader interface {
	// Read returns the name → version-range pairs declared by the workspace
	// at the given root, covering production and development dependencies.
	// A missing manifest is reported via os.ErrNotExist so callers can treat
	// it as a per-workspace skip.
	Read(workspaceRoot string) (map[string]string, error)
}

// FileManifestReader reads package.json manifests from disk.
type FileManifestReader struct{}

// Read implements ManifestReader.
func (FileManifestReader) Read(workspaceRoot string) (map[string]string, error) {
	manifestPath := filepath.Join(workspaceRoot, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed manifest %s", manifestPath)
	}

	declared := make(map[string]string)
	for _, section := range []string{"dependencies", "devDependencies"} {
		gjson.GetBytes(data, section).ForEach(func(name, rang gjson.Result) bool {
			declared[name.String()] = rang.String()
			return true
		})
	}
	return declared, nil
}

// isInternalLink reports whether a declared range uses the workspace
// protocol.
func isInternalLink(versionRange string) bool {
	return strings.HasPrefix(versionRange, workspaceProtocol)
}
