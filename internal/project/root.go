package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the file name of the project configuration.
const ManifestName = "spoke.toml"

// FindManifest looks for spoke.toml in startDir and then in every parent.
// ok is false when none of them has one.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		path = filepath.Join(dir, ManifestName)
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return path, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", path, err)
		case filepath.Dir(dir) == dir:
			return "", false, nil
		}
	}
}

// FindProjectRoot returns the directory holding the nearest spoke.toml.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if !ok {
		return "", false, err
	}
	return filepath.Dir(path), true, nil
}
