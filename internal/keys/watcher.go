// Package keys tracks the two logical modifier keys the launcher reacts to.
package keys

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/applaunch/internal/platform"
	"go.uber.org/zap"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Watcher holds the live Alternate and Secondary modifier state. Updates
// arrive either from Observe (an event source) or from the poll loop in Run;
// both converge on the same two flags.
type Watcher struct {
	reader   platform.ModifierReader
	keymap   platform.KeyMap
	interval time.Duration
	log      *zap.Logger

	alternate atomic.Bool
	secondary atomic.Bool

	mu      sync.Mutex
	subs    map[int]func(platform.Modifiers)
	nextSub int
	failing bool
}

// NewWatcher returns a watcher reading flags from reader. A nil reader
// leaves both modifiers released unless Observe is called.
func NewWatcher(reader platform.ModifierReader, keymap platform.KeyMap, interval time.Duration, log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		reader:   reader,
		keymap:   keymap,
		interval: interval,
		log:      log.Named("keys"),
		subs:     make(map[int]func(platform.Modifiers)),
	}
}

// Alternate reports whether the alternate modifier is held.
func (w *Watcher) Alternate() bool { return w.alternate.Load() }

// Secondary reports whether the secondary (filter) modifier is held.
func (w *Watcher) Secondary() bool { return w.secondary.Load() }

// State returns both modifiers.
func (w *Watcher) State() platform.Modifiers {
	return platform.Modifiers{Alternate: w.Alternate(), Secondary: w.Secondary()}
}

// Subscribe registers fn to be called whenever either modifier changes. The
// returned func unsubscribes.
func (w *Watcher) Subscribe(fn func(platform.Modifiers)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Observe applies a modifier state reported by an event source and returns
// true if it changed anything.
func (w *Watcher) Observe(m platform.Modifiers) bool {
	altChanged := w.alternate.Swap(m.Alternate) != m.Alternate
	secChanged := w.secondary.Swap(m.Secondary) != m.Secondary
	if !altChanged && !secChanged {
		return false
	}
	w.mu.Lock()
	subs := make([]func(platform.Modifiers), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()
	for _, fn := range subs {
		fn(m)
	}
	return true
}

// ObserveFlags decodes a raw flag word through the key map and applies it.
func (w *Watcher) ObserveFlags(flags uint64) bool {
	return w.Observe(w.keymap.Decode(flags))
}

// Poll reads the current flags once and applies them. Read errors leave the
// previous state in place.
func (w *Watcher) Poll() error {
	if w.reader == nil {
		return platform.ErrUnsupported
	}
	flags, err := w.reader.Flags()
	w.mu.Lock()
	wasFailing := w.failing
	w.failing = err != nil
	w.mu.Unlock()
	if err != nil {
		// Log once per failure streak; the poll runs ten times a second.
		if !wasFailing && !errors.Is(err, platform.ErrUnsupported) {
			w.log.Warn("read modifier flags failed", zap.Error(err))
		}
		return err
	}
	w.ObserveFlags(flags)
	return nil
}

// Run polls every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.reader == nil {
		return platform.ErrUnsupported
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll()
		}
	}
}
