package running

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/applaunch/internal/model"
)

// Cache shares one snapshot between callers for ttl, so that many per-row
// checks within the window cost a single registry query.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	snapshot  []model.RunningApp
	timestamp time.Time
	valid     bool
}

// NewCache wraps source. A ttl of 0 disables caching.
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl, now: time.Now}
}

// Snapshot returns the cached snapshot if within ttl, otherwise reads fresh.
func (c *Cache) Snapshot(ctx context.Context) ([]model.RunningApp, error) {
	if c.ttl == 0 {
		return c.source.Snapshot(ctx)
	}

	c.mu.Lock()
	if c.valid && c.now().Sub(c.timestamp) < c.ttl {
		apps := append([]model.RunningApp(nil), c.snapshot...)
		c.mu.Unlock()
		return apps, nil
	}
	c.mu.Unlock()

	apps, err := c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = append([]model.RunningApp(nil), apps...)
	c.timestamp = c.now()
	c.valid = true
	c.mu.Unlock()

	return apps, nil
}

// Invalidate drops the cached snapshot, e.g. after a launch or kill.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.snapshot = nil
}
