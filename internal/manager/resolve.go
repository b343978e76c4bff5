package manager

import (
	"path/filepath"
	"strings"

	"github.com/mj1618/applaunch/internal/model"
)

// Resolve finds the record a user means by target. A target containing a
// path separator is a path: the history entry for it wins over the catalog
// entry, and an unknown path yields a fresh record. Any other target is
// matched case-insensitively against names, history first.
func (m *Manager) Resolve(target string) (model.AppRecord, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return model.AppRecord{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.ContainsRune(target, filepath.Separator) {
		path := filepath.Clean(target)
		if i := model.IndexByPath(m.records, path); i >= 0 {
			return m.records[i].Clone(), true
		}
		if i := model.IndexByPath(m.catalog, path); i >= 0 {
			return m.catalog[i].Clone(), true
		}
		return model.RecordFromPath(path, m.suffix), true
	}

	for _, list := range [][]model.AppRecord{m.records, m.catalog} {
		for _, r := range list {
			if strings.EqualFold(r.Name, target) {
				return r.Clone(), true
			}
		}
	}
	return model.AppRecord{}, false
}
