package pipeline

import (
	"path/filepath"
	"slices"
	"strings"
)

// DisplayFiles returns the progress names of files: sorted, without
// duplicates and without empty entries.
func DisplayFiles(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if abs, err := filepath.Abs(base); base != "" && err == nil {
		base = abs
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f != "" {
			names = append(names, DisplayName(f, base))
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// DisplayName is file relative to baseDir when it lies below it, with
// forward slashes.
func DisplayName(file, baseDir string) string {
	name := filepath.Clean(file)
	if baseDir == "" {
		return filepath.ToSlash(name)
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	rel, err := filepath.Rel(baseDir, name)
	if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		name = rel
	}
	return filepath.ToSlash(name)
}
