package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	DirPerm  = 0755
	FilePerm = 0644
)

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// EnsureParent creates the directory that will hold path, if it has one.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Create expands path, creates its parent directory and opens the file for
// writing, truncating any previous content.
func Create(path string) (*os.File, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureParent(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return f, nil
}

// WriteFile streams r into path and returns the number of bytes written.
func WriteFile(path string, r io.Reader) (int64, error) {
	f, err := Create(path)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close() // nolint:errcheck
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("closing %s: %w", path, err)
	}
	return n, nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	path, err := ExpandPath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
