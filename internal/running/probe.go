// Package running answers "what is running right now": point-in-time
// snapshots of running applications, a short-lived snapshot cache, and a
// monitor that polls whether watched applications are running.
package running

import (
	"context"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
)

// Source produces running-application snapshots.
type Source interface {
	Snapshot(ctx context.Context) ([]model.RunningApp, error)
}

// Probe queries the registry for running applications.
type Probe struct {
	registry platform.Registry
}

// NewProbe returns a probe over registry.
func NewProbe(registry platform.Registry) *Probe {
	return &Probe{registry: registry}
}

// Snapshot returns running applications that expose a bundle path, one per
// path (first seen wins), sorted ascending by name.
func (p *Probe) Snapshot(ctx context.Context) ([]model.RunningApp, error) {
	apps, err := p.registry.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	apps = Dedupe(apps)
	model.SortRunningByName(apps)
	return apps, nil
}

// Dedupe drops entries without a path and every entry whose path was
// already seen. Order of the survivors is preserved.
func Dedupe(apps []model.RunningApp) []model.RunningApp {
	seen := make(map[string]bool, len(apps))
	result := make([]model.RunningApp, 0, len(apps))
	for _, a := range apps {
		if a.Path == "" || seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		result = append(result, a)
	}
	return result
}
