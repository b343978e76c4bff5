// Package manager holds the launcher state: the installed-app catalog, the
// current selection, and the persisted launch history with its view
// settings.
package manager

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
	"github.com/mj1618/applaunch/internal/store"
	"go.uber.org/zap"
)

// HistoryStore loads and saves the full history list.
type HistoryStore interface {
	Load() ([]model.AppRecord, error)
	Save(records []model.AppRecord) error
}

// PrefStore loads and saves the history view settings.
type PrefStore interface {
	Load() (store.ViewPrefs, error)
	Save(prefs store.ViewPrefs) error
}

// Scanner produces the installed-app catalog.
type Scanner interface {
	Scan() []model.AppRecord
}

// Options configures a Manager. Registry and History are required.
type Options struct {
	Registry platform.Registry
	History  HistoryStore
	Prefs    PrefStore
	Scanner  Scanner

	// FilterKey reports whether the modifier that forces the favorites
	// filter is held.
	FilterKey func() bool

	// Suffix is stripped from file names when building records from paths.
	Suffix string

	GraceDelay time.Duration
	ForceDelay time.Duration

	Log *zap.Logger
	Now func() time.Time
}

// Manager is the launcher state container. All methods are safe for
// concurrent use; getters return copies.
type Manager struct {
	registry  platform.Registry
	history   HistoryStore
	prefs     PrefStore
	scanner   Scanner
	filterKey func() bool
	suffix    string
	grace     time.Duration
	force     time.Duration
	log       *zap.Logger
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time

	mu                sync.Mutex
	catalog           []model.AppRecord
	selected          *model.AppRecord
	records           []model.AppRecord
	sortMode          model.SortMode
	showOnlyFavorites bool
	lastSaveErr       error

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New returns a manager with an empty catalog and history. Call Load to
// restore persisted state and Rescan to populate the catalog.
func New(opts Options) *Manager {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC().Round(0) }
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = ".app"
	}
	return &Manager{
		registry:  opts.Registry,
		history:   opts.History,
		prefs:     opts.Prefs,
		scanner:   opts.Scanner,
		filterKey: opts.FilterKey,
		suffix:    suffix,
		grace:     opts.GraceDelay,
		force:     opts.ForceDelay,
		log:       log.Named("manager"),
		now:       now,
		after:     time.After,
		catalog:   []model.AppRecord{},
		records:   []model.AppRecord{},
		sortMode:  model.SortManual,
		subs:      make(map[int]func(Event)),
	}
}

// Load restores history and view settings. Unreadable data is logged and
// replaced by defaults; Load itself never fails.
func (m *Manager) Load() {
	records, err := m.history.Load()
	if err != nil {
		m.log.Warn("history unreadable, starting empty", zap.Error(err))
		records = []model.AppRecord{}
	}
	prefs := store.ViewPrefs{SortMode: model.SortManual}
	if m.prefs != nil {
		p, err := m.prefs.Load()
		if err != nil {
			m.log.Warn("view settings unreadable, using defaults", zap.Error(err))
		}
		prefs = p
	}

	m.mu.Lock()
	m.records = records
	m.sortMode = prefs.SortMode
	m.showOnlyFavorites = prefs.ShowOnlyFavorites
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "load"}, Event{Kind: EventView, Op: "load"})
}

// Rescan replaces the catalog with a fresh directory scan.
func (m *Manager) Rescan() int {
	if m.scanner == nil {
		return 0
	}
	catalog := m.scanner.Scan()
	m.mu.Lock()
	m.catalog = model.CloneRecords(catalog)
	model.SortByName(m.catalog)
	n := len(m.catalog)
	m.mu.Unlock()

	m.emit(Event{Kind: EventCatalog, Op: "rescan"})
	return n
}

// Subscribe registers fn for state change events. The returned func
// unsubscribes. fn runs on the goroutine that made the change, after the
// manager's lock is released.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.subMu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()
	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}

// Catalog returns a copy of the catalog, sorted by name.
func (m *Manager) Catalog() []model.AppRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneRecords(m.catalog)
}

// History returns a copy of the history in stored order.
func (m *Manager) History() []model.AppRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneRecords(m.records)
}

// Selected returns the selected record, if any.
func (m *Manager) Selected() (model.AppRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return model.AppRecord{}, false
	}
	return m.selected.Clone(), true
}

// SortMode returns the current history sort mode.
func (m *Manager) SortMode() model.SortMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortMode
}

// ShowOnlyFavorites reports whether the persistent favorites filter is on.
func (m *Manager) ShowOnlyFavorites() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showOnlyFavorites
}

// LastSaveError returns the error from the most recent failed save, or nil
// if the last save succeeded.
func (m *Manager) LastSaveError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSaveErr
}

// DisplayedHistory returns the history as it should be shown: filtered to
// favorites when the filter setting is on or the filter key is held, and
// sorted by recency in recent mode.
func (m *Manager) DisplayedHistory() []model.AppRecord {
	held := m.filterKey != nil && m.filterKey()
	m.mu.Lock()
	defer m.mu.Unlock()
	view := model.DisplayedHistory(m.records, m.sortMode, m.showOnlyFavorites || held)
	return model.CloneRecords(view)
}

// AddToCatalog adds a manually chosen bundle path to the catalog and
// re-sorts it.
func (m *Manager) AddToCatalog(path string) Outcome {
	if path == "" {
		return NotFound
	}
	path = filepath.Clean(path)
	m.mu.Lock()
	if model.IndexByPath(m.catalog, path) >= 0 {
		m.mu.Unlock()
		return Duplicate
	}
	m.catalog = append(m.catalog, model.RecordFromPath(path, m.suffix))
	model.SortByName(m.catalog)
	m.mu.Unlock()

	m.emit(Event{Kind: EventCatalog, Op: "add", Path: path})
	return Applied
}

// SelectFromRunning selects an app picked from the running list, adding it
// to the catalog first if its path is not there. Applied means the catalog
// grew.
func (m *Manager) SelectFromRunning(record model.AppRecord) Outcome {
	m.mu.Lock()
	outcome := Noop
	events := []Event{}
	if model.IndexByPath(m.catalog, record.Path) < 0 {
		m.catalog = append(m.catalog, record.Clone())
		model.SortByName(m.catalog)
		outcome = Applied
		events = append(events, Event{Kind: EventCatalog, Op: "add", Path: record.Path})
	}
	sel := record.Clone()
	if i := model.IndexByPath(m.catalog, record.Path); i >= 0 {
		sel = m.catalog[i].Clone()
	}
	m.selected = &sel
	m.mu.Unlock()

	events = append(events, Event{Kind: EventSelected, Op: "select", ID: sel.ID, Path: sel.Path})
	m.emit(events...)
	return outcome
}

// Select selects the catalog entry with the given path.
func (m *Manager) Select(path string) Outcome {
	m.mu.Lock()
	i := model.IndexByPath(m.catalog, path)
	if i < 0 {
		m.mu.Unlock()
		return NotFound
	}
	sel := m.catalog[i].Clone()
	m.selected = &sel
	m.mu.Unlock()

	m.emit(Event{Kind: EventSelected, Op: "select", ID: sel.ID, Path: sel.Path})
	return Applied
}

// Launch opens the app, selects it and records the launch. The launch is
// recorded even when opening fails; the open error is returned.
func (m *Manager) Launch(ctx context.Context, record model.AppRecord) (Outcome, error) {
	err := m.registry.Open(ctx, record.Path)
	if err != nil {
		m.log.Warn("open failed", zap.String("path", record.Path), zap.Error(err))
	}

	m.mu.Lock()
	sel := record.Clone()
	m.selected = &sel
	m.mu.Unlock()
	m.emit(Event{Kind: EventSelected, Op: "launch", ID: sel.ID, Path: sel.Path})

	return m.RecordLaunch(record), err
}

// RecordLaunch stamps the history entry for record's path with the current
// time, keeping its position. A path not yet in history gets a new entry at
// the head.
func (m *Manager) RecordLaunch(record model.AppRecord) Outcome {
	if record.Path == "" {
		return NotFound
	}
	now := m.now()

	m.mu.Lock()
	var id string
	if i := model.IndexByPath(m.records, record.Path); i >= 0 {
		m.records[i].LastLaunched = &now
		id = m.records[i].ID
	} else {
		name := record.Name
		if name == "" {
			name = model.NameFromPath(record.Path, m.suffix)
		}
		entry := model.NewAppRecord(name, record.Path)
		entry.LastLaunched = &now
		m.records = append([]model.AppRecord{entry}, m.records...)
		id = entry.ID
	}
	m.saveLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "launch", ID: id, Path: record.Path})
	return Applied
}

// DeleteFromHistory removes the entry with the given id.
func (m *Manager) DeleteFromHistory(id string) Outcome {
	m.mu.Lock()
	i := model.IndexByID(m.records, id)
	if i < 0 {
		m.mu.Unlock()
		return NotFound
	}
	path := m.records[i].Path
	m.records = append(m.records[:i], m.records[i+1:]...)
	m.saveLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "delete", ID: id, Path: path})
	return Applied
}

// ToggleFavorite flips the favorite flag on the entry with the given id.
func (m *Manager) ToggleFavorite(id string) Outcome {
	m.mu.Lock()
	i := model.IndexByID(m.records, id)
	if i < 0 {
		m.mu.Unlock()
		return NotFound
	}
	m.records[i].IsFavorite = !m.records[i].IsFavorite
	path := m.records[i].Path
	m.saveLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "favorite", ID: id, Path: path})
	return Applied
}

// ClearNonFavorites removes every entry that is not a favorite. Survivors
// keep their relative order.
func (m *Manager) ClearNonFavorites() Outcome {
	m.mu.Lock()
	kept := model.FilterFavorites(m.records)
	if len(kept) == len(m.records) {
		m.mu.Unlock()
		return Noop
	}
	m.records = kept
	m.saveLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "clear"})
	return Applied
}

// Move reorders history in manual mode: the entry fromID is removed and
// reinserted at the index toID occupies after the removal. Dragging down
// therefore lands the entry just after the target, dragging up lands it at
// the target.
func (m *Manager) Move(fromID, toID string) Outcome {
	m.mu.Lock()
	if m.sortMode != model.SortManual {
		m.mu.Unlock()
		return ManualOnly
	}
	from := model.IndexByID(m.records, fromID)
	if from < 0 || model.IndexByID(m.records, toID) < 0 {
		m.mu.Unlock()
		return NotFound
	}
	if fromID == toID {
		m.mu.Unlock()
		return Noop
	}

	entry := m.records[from]
	rest := make([]model.AppRecord, 0, len(m.records))
	rest = append(rest, m.records[:from]...)
	rest = append(rest, m.records[from+1:]...)
	to := model.IndexByID(rest, toID)

	moved := make([]model.AppRecord, 0, len(m.records))
	moved = append(moved, rest[:to]...)
	moved = append(moved, entry)
	moved = append(moved, rest[to:]...)
	m.records = moved
	m.saveLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventHistory, Op: "move", ID: fromID, Path: entry.Path})
	return Applied
}

// SetSortMode changes the history sort mode.
func (m *Manager) SetSortMode(mode model.SortMode) Outcome {
	m.mu.Lock()
	if m.sortMode == mode {
		m.mu.Unlock()
		return Noop
	}
	m.sortMode = mode
	m.savePrefsLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventView, Op: "sort"})
	return Applied
}

// SetShowOnlyFavorites turns the persistent favorites filter on or off.
func (m *Manager) SetShowOnlyFavorites(on bool) Outcome {
	m.mu.Lock()
	if m.showOnlyFavorites == on {
		m.mu.Unlock()
		return Noop
	}
	m.showOnlyFavorites = on
	m.savePrefsLocked()
	m.mu.Unlock()

	m.emit(Event{Kind: EventView, Op: "favorites"})
	return Applied
}

// saveLocked writes the whole history. Failures are logged and kept for
// LastSaveError; the in-memory state stays as mutated.
func (m *Manager) saveLocked() {
	err := m.history.Save(model.CloneRecords(m.records))
	if err != nil {
		m.log.Error("save history failed", zap.Int("entries", len(m.records)), zap.Error(err))
	}
	m.lastSaveErr = err
}

func (m *Manager) savePrefsLocked() {
	if m.prefs == nil {
		return
	}
	err := m.prefs.Save(store.ViewPrefs{SortMode: m.sortMode, ShowOnlyFavorites: m.showOnlyFavorites})
	if err != nil {
		m.log.Error("save view settings failed", zap.Error(err))
	}
	m.lastSaveErr = err
}
