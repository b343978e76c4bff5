package running

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mj1618/applaunch/internal/platform"
	"go.uber.org/zap"
)

// Change reports that a watched path started or stopped running.
type Change struct {
	Path    string `yaml:"path"    json:"path"`
	Running bool   `yaml:"running" json:"running"`
}

// Monitor polls whether watched application paths are running. Membership
// is tested by bundle identifier, not path: each watched path is resolved to
// its identifier once, and any running instance with that identifier counts.
type Monitor struct {
	source   Source
	registry platform.Registry
	interval time.Duration
	log      *zap.Logger

	mu          sync.Mutex
	identifiers map[string]string // path -> bundle id ("" when unresolved)
	state       map[string]bool
	subs        map[int]func(Change)
	nextSub     int
}

// NewMonitor returns a monitor that polls source every interval.
func NewMonitor(source Source, registry platform.Registry, interval time.Duration, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		source:      source,
		registry:    registry,
		interval:    interval,
		log:         log.Named("running"),
		identifiers: make(map[string]string),
		state:       make(map[string]bool),
		subs:        make(map[int]func(Change)),
	}
}

// Watch replaces the set of watched paths. Identifiers already resolved for
// a path are kept; new paths are resolved now. Paths that stop being watched
// lose their state without emitting a change.
func (m *Monitor) Watch(ctx context.Context, paths ...string) {
	resolved := make(map[string]string, len(paths))
	m.mu.Lock()
	for _, p := range paths {
		if id, ok := m.identifiers[p]; ok {
			resolved[p] = id
		}
	}
	m.mu.Unlock()

	for _, p := range paths {
		if _, ok := resolved[p]; ok {
			continue
		}
		id, err := m.registry.ResolveIdentifier(ctx, p)
		if err != nil {
			if !errors.Is(err, platform.ErrNoIdentifier) {
				m.log.Debug("resolve identifier failed", zap.String("path", p), zap.Error(err))
			}
			id = ""
		}
		resolved[p] = id
	}

	m.mu.Lock()
	m.identifiers = resolved
	for p := range m.state {
		if _, ok := resolved[p]; !ok {
			delete(m.state, p)
		}
	}
	m.mu.Unlock()
}

// Watched returns the watched paths and their resolved identifiers.
func (m *Monitor) Watched() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.identifiers))
	for p, id := range m.identifiers {
		out[p] = id
	}
	return out
}

// IsRunning returns the last polled state for path.
func (m *Monitor) IsRunning(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[path]
}

// Subscribe registers fn for changes. The returned func unsubscribes.
func (m *Monitor) Subscribe(fn func(Change)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Check polls once, updates state, and notifies subscribers of changes. A
// failed snapshot leaves the previous state untouched.
func (m *Monitor) Check(ctx context.Context) ([]Change, error) {
	apps, err := m.source.Snapshot(ctx)
	if err != nil {
		m.log.Warn("running snapshot failed", zap.Error(err))
		return nil, err
	}
	live := make(map[string]bool, len(apps))
	for _, a := range apps {
		if a.BundleID != "" {
			live[a.BundleID] = true
		}
	}

	m.mu.Lock()
	var changes []Change
	for p, id := range m.identifiers {
		now := id != "" && live[id]
		prev, seen := m.state[p]
		m.state[p] = now
		if !seen && !now {
			continue
		}
		if prev != now || !seen {
			changes = append(changes, Change{Path: p, Running: now})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	subs := make([]func(Change), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, c := range changes {
		for _, fn := range subs {
			fn(c)
		}
	}
	return changes, nil
}

// Run polls every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
