// Package kv provides the key-value slot stores docket persists into.
//
// A slot is a named string value. docket uses two: SlotTasks holds the JSON
// task collection and SlotDarkMode holds "true" or "false". Three backends
// implement Store:
//
//   - Memory: an in-process map, for tests
//   - Dir: one file per slot in a directory, written atomically
//   - SQLite: a single table in a SQLite database (modernc.org/sqlite)
package kv

import (
	"errors"
	"fmt"
	"sync"
)

// Slot names used by docket.
const (
	SlotTasks    = "todos"
	SlotDarkMode = "darkMode"
)

// ErrInvalidKey is returned for empty keys or keys that are not safe file names.
var ErrInvalidKey = errors.New("invalid slot key")

// Store reads and writes named slots.
type Store interface {
	// Get returns the slot value. ok is false when the slot was never set.
	Get(key string) (value string, ok bool, err error)

	// Set replaces the slot value.
	Set(key, value string) error

	// Close releases backend resources.
	Close() error
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// Memory is a Store kept entirely in memory.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	return value, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
