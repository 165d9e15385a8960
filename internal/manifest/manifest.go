// Package manifest performs structured edits on workspace package.json
// files for the add and remove commands. Manifests are decoded, modified as
// data, and re-encoded; unknown fields survive the round trip untouched.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

const (
	sectionDependencies    = "dependencies"
	sectionDevDependencies = "devDependencies"
)

// AddEntry declares pkg at the given range in the workspace's manifest.
// With dev set the entry goes into devDependencies. An existing entry for
// the same package is overwritten with the new range.
func AddEntry(workspaceRoot, pkg, versionRange string, dev bool) error {
	return edit(workspaceRoot, func(root map[string]json.RawMessage) error {
		section := sectionDependencies
		if dev {
			section = sectionDevDependencies
		}

		deps, err := decodeSection(root, section)
		if err != nil {
			return err
		}
		deps[pkg] = versionRange
		return encodeSection(root, section, deps)
	})
}

// RemoveEntry deletes pkg from both dependency sections of the workspace's
// manifest. It is an error if no section declares the package.
func RemoveEntry(workspaceRoot, pkg string) error {
	return edit(workspaceRoot, func(root map[string]json.RawMessage) error {
		removed := false
		for _, section := range []string{sectionDependencies, sectionDevDependencies} {
			deps, err := decodeSection(root, section)
			if err != nil {
				return err
			}
			if _, ok := deps[pkg]; !ok {
				continue
			}
			delete(deps, pkg)
			removed = true
			if err := encodeSection(root, section, deps); err != nil {
				return err
			}
		}
		if !removed {
			return fmt.Errorf("package %q is not declared in the manifest", pkg)
		}
		return nil
	})
}

// PackageName reads the published name from the workspace's manifest.
func PackageName(workspaceRoot string) (string, error) {
	path := filepath.Join(workspaceRoot, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading manifest: %w", err)
	}
	name := gjson.GetBytes(data, "name").String()
	if name == "" {
		return "", fmt.Errorf("manifest %s declares no name", path)
	}
	return name, nil
}

// edit runs one read/modify/write cycle on the manifest.
func edit(workspaceRoot string, change func(map[string]json.RawMessage) error) error {
	path := filepath.Join(workspaceRoot, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("malformed manifest %s: %w", path, err)
	}

	if err := change(root); err != nil {
		return err
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func decodeSection(root map[string]json.RawMessage, section string) (map[string]string, error) {
	deps := make(map[string]string)
	raw, ok := root[section]
	if !ok {
		return deps, nil
	}
	if err := json.Unmarshal(raw, &deps); err != nil {
		return nil, fmt.Errorf("malformed %s section: %w", section, err)
	}
	return deps, nil
}

func encodeSection(root map[string]json.RawMessage, section string, deps map[string]string) error {
	if len(deps) == 0 {
		delete(root, section)
		return nil
	}
	raw, err := json.Marshal(deps)
	if err != nil {
		return err
	}
	root[section] = raw
	return nil
}
