// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocateProjectFile resolves the project file path. An existing path is
// returned as-is. A bare file name that does not exist in the working
// directory is searched for upward through the parent directories, so the
// tool can be invoked from anywhere inside the project.
func LocateProjectFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if filepath.Base(path) != path {
		return "", fmt.Errorf("project file %s not found", path)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in this or any parent directory", path)
		}
		dir = parent
	}
}
