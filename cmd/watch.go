package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/mj1618/applaunch/internal/output"
	"github.com/mj1618/applaunch/internal/platform"
	"github.com/mj1618/applaunch/internal/running"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream modifier-key and running-state changes as JSONL",
	Long: `Poll the modifier keys and the running state of every history entry, and emit one
JSON object per change to stdout.

Event types:
  modifiers  the alternate or secondary key changed
  history    the displayed history changed because the filter key was pressed or released
  running    a history entry started or stopped running (matched by bundle identifier)

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop watching.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("duration", 0, "Max seconds to watch (0 = until Ctrl+C)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	durationSec, _ := cmd.Flags().GetInt("duration")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	// The monitor and the key watcher emit from their own goroutines.
	var encMu sync.Mutex
	events := 0
	enc := json.NewEncoder(output.Stdout)
	enc.SetEscapeHTML(false)
	emit := func(v map[string]interface{}) {
		v["ts"] = time.Now().Unix()
		encMu.Lock()
		defer encMu.Unlock()
		switch v["type"] {
		case "running", "modifiers", "history":
			events++
		}
		enc.Encode(v)
	}

	monitor := running.NewMonitor(a.apps, a.provider.Registry, a.cfg.Watch.RunningInterval, a.log)
	var paths []string
	for _, r := range a.mgr.History() {
		paths = append(paths, r.Path)
	}
	monitor.Watch(ctx, paths...)

	monitor.Subscribe(func(c running.Change) {
		emit(map[string]interface{}{"type": "running", "path": c.Path, "running": c.Running})
	})

	secondary := a.watcher.Secondary()
	a.watcher.Subscribe(func(m platform.Modifiers) {
		emit(map[string]interface{}{"type": "modifiers", "alternate": m.Alternate, "secondary": m.Secondary})
		if m.Secondary != secondary {
			secondary = m.Secondary
			entries := a.mgr.DisplayedHistory()
			emit(map[string]interface{}{"type": "history", "count": len(entries), "entries": entries})
		}
	})

	emit(map[string]interface{}{
		"type":          "snapshot",
		"history":       len(paths),
		"sort":          a.mgr.SortMode(),
		"favoritesOnly": a.mgr.ShowOnlyFavorites(),
	})

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		monitor.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.watcher.Run(ctx); err != nil && ctx.Err() == nil {
			emit(map[string]interface{}{"type": "error", "error": err.Error()})
		}
	}()
	wg.Wait()

	encMu.Lock()
	total := events
	encMu.Unlock()
	emit(map[string]interface{}{
		"type":    "done",
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  total,
	})
	return nil
}
