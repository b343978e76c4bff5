package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppRecord represents one launchable application, either in the scanned
// catalog or in the persisted launch history.
type AppRecord struct {
	ID           string     `yaml:"id"                     json:"id"`
	Name         string     `yaml:"name"                   json:"name"`
	Path         string     `yaml:"path"                   json:"path"`
	IsFavorite   bool       `yaml:"isFavorite"             json:"isFavorite"`
	LastLaunched *time.Time `yaml:"lastLaunched,omitempty" json:"lastLaunched,omitempty"`
}

// NewAppRecord returns a record with a fresh id for the given name and path.
func NewAppRecord(name, path string) AppRecord {
	return AppRecord{
		ID:   uuid.New().String(),
		Name: name,
		Path: path,
	}
}

// RecordFromPath builds a record whose name is the base name of path with
// suffix stripped (e.g. "/Applications/Safari.app" -> "Safari").
func RecordFromPath(path, suffix string) AppRecord {
	return NewAppRecord(NameFromPath(path, suffix), path)
}

// NameFromPath returns the display name for a bundle path.
func NameFromPath(path, suffix string) string {
	base := filepath.Base(path)
	if suffix != "" {
		base = strings.TrimSuffix(base, suffix)
	}
	return base
}

// Launched reports whether the record has ever been launched.
func (r AppRecord) Launched() bool {
	return r.LastLaunched != nil
}

// Clone returns a deep copy; LastLaunched is not shared with the original.
func (r AppRecord) Clone() AppRecord {
	if r.LastLaunched != nil {
		t := *r.LastLaunched
		r.LastLaunched = &t
	}
	return r
}

// RunningApp is one entry of a running-application snapshot. It is never
// persisted.
type RunningApp struct {
	Name     string `yaml:"name"               json:"name"`
	Path     string `yaml:"path"               json:"path"`
	BundleID string `yaml:"bundleId,omitempty" json:"bundleId,omitempty"`
	PID      int    `yaml:"pid"                json:"pid"`
}

// Record converts the running app into an AppRecord-shaped value with a
// fresh id and no favorite or launch metadata.
func (a RunningApp) Record() AppRecord {
	return NewAppRecord(a.Name, a.Path)
}

// CloneRecords deep-copies a slice of records. A nil input yields an empty
// non-nil slice so callers can serialize it as [].
func CloneRecords(in []AppRecord) []AppRecord {
	out := make([]AppRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
