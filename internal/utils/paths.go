package utils

import (
	"path/filepath"
	"strings"
)

// ResolvePath resolves path relative to baseDir. Absolute paths and empty
// strings are returned unchanged.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Basename strips any directory prefix from name. Both '/' and '\' count as
// separators so ids written on Windows match ids written elsewhere.
func Basename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, `/\`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
