package keys

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/applaunch/internal/platform"
	"github.com/mj1618/applaunch/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatcher_PollDecodesKeyMap(t *testing.T) {
	reader := &platformtest.ModifierReader{}
	w := NewWatcher(reader, platform.DefaultKeyMap, 0, nil)

	reader.Set(platform.FlagMaskAlternate)
	require.NoError(t, w.Poll())
	assert.True(t, w.Alternate())
	assert.False(t, w.Secondary())

	reader.Set(platform.FlagMaskCommand | platform.FlagMaskShift)
	require.NoError(t, w.Poll())
	assert.False(t, w.Alternate())
	assert.True(t, w.Secondary())

	reader.Set(0)
	require.NoError(t, w.Poll())
	assert.Equal(t, platform.Modifiers{}, w.State())
}

func TestWatcher_CustomKeyMap(t *testing.T) {
	km, err := platform.ParseKeyMap("shift", "control")
	require.NoError(t, err)
	reader := &platformtest.ModifierReader{}
	w := NewWatcher(reader, km, 0, nil)

	reader.Set(platform.FlagMaskAlternate | platform.FlagMaskControl)
	require.NoError(t, w.Poll())
	assert.Equal(t, platform.Modifiers{Alternate: false, Secondary: true}, w.State())
}

func TestWatcher_ObserveAndPollConverge(t *testing.T) {
	reader := &platformtest.ModifierReader{}
	w := NewWatcher(reader, platform.DefaultKeyMap, 0, nil)

	var mu sync.Mutex
	var events []platform.Modifiers
	w.Subscribe(func(m platform.Modifiers) {
		mu.Lock()
		events = append(events, m)
		mu.Unlock()
	})

	// Event path reports the key down; poll later sees the same state.
	assert.True(t, w.Observe(platform.Modifiers{Alternate: true}))
	reader.Set(platform.FlagMaskAlternate)
	require.NoError(t, w.Poll())
	assert.True(t, w.Alternate())

	// A missed key-up event is corrected by the next poll.
	reader.Set(0)
	require.NoError(t, w.Poll())
	assert.False(t, w.Alternate())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []platform.Modifiers{{Alternate: true}, {}}, events)
}

func TestWatcher_ReadErrorKeepsState(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reader := &platformtest.ModifierReader{}
	w := NewWatcher(reader, platform.DefaultKeyMap, 0, zap.New(core))

	reader.Set(platform.FlagMaskCommand)
	require.NoError(t, w.Poll())

	reader.Fail(errors.New("no event source"))
	assert.Error(t, w.Poll())
	assert.Error(t, w.Poll())
	assert.True(t, w.Secondary())
	assert.Equal(t, 1, logs.Len())

	reader.Fail(nil)
	reader.Set(0)
	require.NoError(t, w.Poll())
	assert.False(t, w.Secondary())
}

func TestWatcher_UnsupportedReaderIsQuiet(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reader := &platformtest.ModifierReader{}
	reader.Fail(platform.ErrUnsupported)
	w := NewWatcher(reader, platform.DefaultKeyMap, 0, zap.New(core))

	assert.ErrorIs(t, w.Poll(), platform.ErrUnsupported)
	assert.Equal(t, 0, logs.Len())
}

func TestWatcher_NilReader(t *testing.T) {
	w := NewWatcher(nil, platform.DefaultKeyMap, 0, nil)
	assert.ErrorIs(t, w.Poll(), platform.ErrUnsupported)
	assert.ErrorIs(t, w.Run(context.Background()), platform.ErrUnsupported)
	assert.True(t, w.ObserveFlags(platform.FlagMaskAlternate))
	assert.True(t, w.Alternate())
}

func TestWatcher_RunPollsUntilCancel(t *testing.T) {
	reader := &platformtest.ModifierReader{}
	reader.Set(platform.FlagMaskAlternate)
	w := NewWatcher(reader, platform.DefaultKeyMap, 2*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, w.Alternate, time.Second, time.Millisecond)
	reader.Set(0)
	require.Eventually(t, func() bool { return !w.Alternate() }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
