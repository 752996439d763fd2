package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores each slot as a file named after its key inside a directory.
type Dir struct {
	path string
}

// OpenDir creates the directory if needed and returns a Store rooted at it.
func OpenDir(path string) (*Dir, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("slot dir is empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory holding the slot files.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(filepath.Join(d.path, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the value to a temp file in the same directory and renames it
// over the slot, so a crash never leaves a half-written slot behind.
func (d *Dir) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.path, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(d.path, key)); err != nil {
		return fmt.Errorf("replace slot %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Close() error { return nil }
