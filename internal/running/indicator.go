package running

import (
	"context"
	"errors"
	"sync"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
	"go.uber.org/zap"
)

// Indicator answers the per-row "is this app running" question for a list
// of records. Like Monitor it matches by bundle identifier, so a running copy
// of the same app at another path counts. Identifiers are resolved once per
// path and remembered.
type Indicator struct {
	source   Source
	registry platform.Registry
	log      *zap.Logger

	mu          sync.Mutex
	identifiers map[string]string // path -> bundle id ("" when unresolved)
}

// NewIndicator returns an indicator reading snapshots from source. Pass a
// Cache as source to share one registry query across many rows.
func NewIndicator(source Source, registry platform.Registry, log *zap.Logger) *Indicator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Indicator{
		source:      source,
		registry:    registry,
		log:         log.Named("running"),
		identifiers: make(map[string]string),
	}
}

// Running reports, for each record in order, whether an application with
// the record's bundle identifier is running.
func (i *Indicator) Running(ctx context.Context, records []model.AppRecord) ([]bool, error) {
	out := make([]bool, len(records))
	if len(records) == 0 {
		return out, nil
	}
	apps, err := i.source.Snapshot(ctx)
	if err != nil {
		return out, err
	}
	live := make(map[string]bool, len(apps))
	byPath := make(map[string]string, len(apps))
	for _, a := range apps {
		if a.BundleID == "" {
			continue
		}
		live[a.BundleID] = true
		byPath[a.Path] = a.BundleID
	}
	for n, r := range records {
		id := i.identifier(ctx, r.Path, byPath)
		out[n] = id != "" && live[id]
	}
	return out, nil
}

func (i *Indicator) identifier(ctx context.Context, path string, byPath map[string]string) string {
	i.mu.Lock()
	id, ok := i.identifiers[path]
	i.mu.Unlock()
	if ok {
		return id
	}
	if id, ok := byPath[path]; ok {
		i.remember(path, id)
		return id
	}
	id, err := i.registry.ResolveIdentifier(ctx, path)
	if err != nil {
		if !errors.Is(err, platform.ErrNoIdentifier) {
			// Transient failures are retried on the next call.
			i.log.Debug("resolve identifier failed", zap.String("path", path), zap.Error(err))
			return ""
		}
		id = ""
	}
	i.remember(path, id)
	return id
}

func (i *Indicator) remember(path, id string) {
	i.mu.Lock()
	i.identifiers[path] = id
	i.mu.Unlock()
}
