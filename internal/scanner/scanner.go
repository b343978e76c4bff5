// Package scanner builds the catalog of installed applications by listing a
// fixed set of directories and keeping entries with the bundle suffix.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mj1618/applaunch/internal/model"
	"go.uber.org/zap"
)

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
	`{`, `\{`,
	`}`, `\}`,
)

// Scanner lists installed application bundles.
type Scanner struct {
	dirs    []string
	suffix  string
	pattern string
	log     *zap.Logger
}

// New creates a Scanner over dirs. Entries are kept when their name ends in
// suffix (e.g. ".app").
func New(dirs []string, suffix string, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		dirs:    append([]string(nil), dirs...),
		suffix:  suffix,
		pattern: "*" + globEscaper.Replace(suffix),
		log:     log.Named("scanner"),
	}
}

// Dirs returns the directories scanned, in order.
func (s *Scanner) Dirs() []string {
	return append([]string(nil), s.dirs...)
}

// Suffix returns the bundle suffix stripped from entry names.
func (s *Scanner) Suffix() string {
	return s.suffix
}

// Scan lists every directory and returns the catalog sorted by name. Missing
// or unreadable directories are logged and skipped. Each call creates fresh
// records with new ids. Entries are not checked for executability.
func (s *Scanner) Scan() []model.AppRecord {
	catalog := []model.AppRecord{}
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.log.Warn("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		found := 0
		for _, entry := range entries {
			if !s.Matches(entry.Name()) {
				continue
			}
			catalog = append(catalog, model.RecordFromPath(filepath.Join(dir, entry.Name()), s.suffix))
			found++
		}
		s.log.Debug("scanned directory", zap.String("dir", dir), zap.Int("apps", found))
	}
	model.SortByName(catalog)
	return catalog
}

// Matches reports whether name carries the bundle suffix.
func (s *Scanner) Matches(name string) bool {
	ok, err := doublestar.Match(s.pattern, name)
	return err == nil && ok
}
