// Package filex contains local filesystem helpers for downloaded screenshots
// and exported reports.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadName is returned when a server-provided file name cannot be used locally.
var ErrBadName = errors.New("bad file name")

// EnsureDir creates dir (relative paths are resolved against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeJoin joins dir with the base name of name. Names that reduce to nothing
// usable ("", ".", "..", "/") are rejected.
func SafeJoin(dir, name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	if base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(dir, base), nil
}
