package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}

// EnsureOutputDir creates dir (default ".") and checks that it is a directory.
func EnsureOutputDir(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat output dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("output path %q is not a directory", dir)
	}
	return nil
}
