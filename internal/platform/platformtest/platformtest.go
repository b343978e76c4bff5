// Package platformtest provides in-memory platform backends for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
)

// Registry is a fake platform.Registry. Running apps and bundle identifiers
// are seeded by the test; every call is recorded.
type Registry struct {
	mu          sync.Mutex
	running     []model.RunningApp
	identifiers map[string]string
	survives    map[int]int
	calls       []string
	listCount   int

	OpenErr error
	ListErr error
}

// NewRegistry returns an empty fake registry.
func NewRegistry() *Registry {
	return &Registry{
		identifiers: make(map[string]string),
		survives:    make(map[int]int),
	}
}

// AddRunning registers a running instance; bundleID is also recorded as the
// identifier for its path.
func (r *Registry) AddRunning(name, path, bundleID string, pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = append(r.running, model.RunningApp{Name: name, Path: path, BundleID: bundleID, PID: pid})
	if bundleID != "" {
		r.identifiers[path] = bundleID
	}
}

// SetIdentifier records the bundle identifier for a path without starting it.
func (r *Registry) SetIdentifier(path, bundleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identifiers[path] = bundleID
}

// Survive makes pid ignore the first n termination tiers (0 = graceful
// terminate works, 1 = needs force, 2 = needs kill, 3 = never exits).
func (r *Registry) Survive(pid, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.survives[pid] = n
}

// Stop removes pid from the running list as if it exited on its own.
func (r *Registry) Stop(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(pid)
}

// Calls returns the recorded calls in order, e.g. "open:/Applications/X.app"
// or "terminate:42".
func (r *Registry) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// ListCount returns how many times ListRunning was called.
func (r *Registry) ListCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCount
}

func (r *Registry) ListRunning(ctx context.Context) ([]model.RunningApp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCount++
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	out := make([]model.RunningApp, len(r.running))
	copy(out, r.running)
	return out, nil
}

func (r *Registry) ResolveIdentifier(ctx context.Context, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.identifiers[path]
	if !ok || id == "" {
		return "", platform.ErrNoIdentifier
	}
	return id, nil
}

func (r *Registry) Open(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "open:"+path)
	return r.OpenErr
}

func (r *Registry) Terminate(ctx context.Context, pid int) error {
	return r.tier("terminate", pid, 0)
}

func (r *Registry) ForceTerminate(ctx context.Context, pid int) error {
	return r.tier("force", pid, 1)
}

func (r *Registry) Kill(pid int) error {
	return r.tier("kill", pid, 2)
}

func (r *Registry) tier(name string, pid, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("%s:%d", name, pid))
	if r.survives[pid] <= level {
		r.removeLocked(pid)
	}
	return nil
}

func (r *Registry) removeLocked(pid int) {
	kept := r.running[:0]
	for _, a := range r.running {
		if a.PID != pid {
			kept = append(kept, a)
		}
	}
	r.running = kept
}

// ModifierReader is a fake platform.ModifierReader.
type ModifierReader struct {
	mu    sync.Mutex
	flags uint64
	err   error
	reads int
}

// Set replaces the reported flag word.
func (m *ModifierReader) Set(flags uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags = flags
}

// Fail makes subsequent reads return err (nil clears it).
func (m *ModifierReader) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reads returns how many times Flags was called.
func (m *ModifierReader) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *ModifierReader) Flags() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return 0, m.err
	}
	return m.flags, nil
}

// Provider returns a platform.Provider backed by the given fakes.
func Provider(reg *Registry, mods *ModifierReader) *platform.Provider {
	return &platform.Provider{Registry: reg, Modifiers: mods}
}
