package platform

import (
	"path/filepath"
)

// Normalize cleans a path for the current platform
func Normalize(path string) string {
	return filepath.Clean(path)
}

// Canonical resolves a path to its absolute, symlink-free form. Used to
// detect when directory recursion re-enters a tree through a symlink.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
