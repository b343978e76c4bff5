// Package store persists applaunch state in a key-value settings store.
// Backends hold byte values under string keys; the file backend requires
// each value to be JSON. History and Preferences encode their values into
// fixed slots.
package store

import (
	"fmt"
	"sync"
)

// Settings is a key-value settings store.
type Settings interface {
	// Get returns the value for key. ok is false when the key is unset.
	Get(key string) (value []byte, ok bool, err error)
	// Set replaces the value for key entirely.
	Set(key string, value []byte) error
	Close() error
}

// Open returns the settings backend named by backend ("file" or "sqlite")
// at path.
func Open(backend, path string) (Settings, error) {
	switch backend {
	case "file", "":
		return NewFileSettings(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %q (use file or sqlite)", backend)
	}
}

// MemorySettings keeps values in memory. It is safe for concurrent use.
type MemorySettings struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int

	// SetErr, when non-nil, is returned by every Set.
	SetErr error
}

// NewMemorySettings returns an empty in-memory store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string][]byte)}
}

func (m *MemorySettings) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySettings) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Writes returns the number of successful Set calls.
func (m *MemorySettings) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemorySettings) Close() error { return nil }
