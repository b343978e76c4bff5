package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSettings stores every key in one JSON document. Each value must itself
// be JSON and is embedded as-is, so the document stays readable by hand.
// Writes replace the file atomically.
type FileSettings struct {
	mu   sync.Mutex
	path string
}

// NewFileSettings returns a file-backed store at path. The file and its
// directory are created on first Set.
func NewFileSettings(path string) *FileSettings {
	return &FileSettings{path: path}
}

// Path returns the backing file path.
func (f *FileSettings) Path() string {
	return f.path
}

func (f *FileSettings) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *FileSettings) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("settings value for %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		// An unreadable document is replaced rather than blocking writes.
		doc = make(map[string]json.RawMessage)
	}
	doc[key] = append(json.RawMessage(nil), value...)
	return f.write(doc)
}

func (f *FileSettings) Close() error { return nil }

func (f *FileSettings) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	doc := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileSettings) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
