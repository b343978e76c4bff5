package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mj1618/applaunch/internal/config"
	"github.com/mj1618/applaunch/internal/keys"
	"github.com/mj1618/applaunch/internal/logging"
	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/output"
	"github.com/mj1618/applaunch/internal/platform"
	"github.com/mj1618/applaunch/internal/running"
	"github.com/mj1618/applaunch/internal/scanner"
	"github.com/mj1618/applaunch/internal/store"
	"go.uber.org/zap"
)

// newProvider is replaced in tests.
var newProvider = platform.NewProvider

// app holds everything a command needs for one invocation.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	provider  *platform.Provider
	settings  store.Settings
	mgr       *manager.Manager
	apps      *running.Cache
	indicator *running.Indicator
	watcher   *keys.Watcher
}

// newApp loads configuration, opens the settings store and restores the
// manager's persisted state. The catalog is not scanned; commands that need
// it call mgr.Rescan.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backend, _ := rootCmd.PersistentFlags().GetString("store"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path, _ := rootCmd.PersistentFlags().GetString("store-path"); path != "" {
		cfg.Store.Path = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	provider, err := newProvider()
	if err != nil {
		return nil, err
	}

	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	settings, err := store.Open(cfg.Store.Backend, path)
	if err != nil {
		return nil, err
	}
	log.Debug("settings store opened", zap.String("backend", cfg.Store.Backend), zap.String("path", path))

	keymap, err := cfg.KeyMap()
	if err != nil {
		settings.Close()
		return nil, err
	}
	watcher := keys.NewWatcher(provider.Modifiers, keymap, cfg.Watch.ModifierInterval, log)

	mgr := manager.New(manager.Options{
		Registry:   provider.Registry,
		History:    store.NewHistory(settings),
		Prefs:      store.NewPreferences(settings),
		Scanner:    scanner.New(cfg.ScanDirs(), cfg.Scan.Suffix, log),
		FilterKey:  watcher.Secondary,
		Suffix:     cfg.Scan.Suffix,
		GraceDelay: cfg.Kill.GraceDelay,
		ForceDelay: cfg.Kill.ForceDelay,
		Log:        log,
	})
	mgr.Load()

	apps := running.NewCache(running.NewProbe(provider.Registry), cfg.Watch.SnapshotTTL)
	return &app{
		cfg:       cfg,
		log:       log,
		provider:  provider,
		settings:  settings,
		mgr:       mgr,
		apps:      apps,
		indicator: running.NewIndicator(apps, provider.Registry, log),
		watcher:   watcher,
	}, nil
}

func (a *app) Close() {
	if err := a.settings.Close(); err != nil {
		a.log.Warn("close settings store", zap.Error(err))
	}
	_ = a.log.Sync()
}

// pollKeys samples the modifier keys once so that a one-shot command sees a
// held filter key.
func (a *app) pollKeys() {
	if err := a.watcher.Poll(); err != nil && !errors.Is(err, platform.ErrUnsupported) {
		a.log.Debug("modifier keys unavailable", zap.Error(err))
	}
}

// historyResult builds the displayed history with running flags.
func (a *app) historyResult(ctx context.Context) output.HistoryResult {
	entries := a.mgr.DisplayedHistory()
	flags, err := a.indicator.Running(ctx, entries)
	if err != nil {
		a.log.Warn("running indicator unavailable", zap.Error(err))
	}
	return output.NewHistoryResult(a.mgr.SortMode(), a.mgr.ShowOnlyFavorites(), entries, flags)
}

// resolve looks up target in history and the catalog, scanning the catalog
// when target is a name not yet known.
func (a *app) resolve(target string) (model.AppRecord, error) {
	if r, ok := a.mgr.Resolve(target); ok {
		return r, nil
	}
	a.mgr.Rescan()
	if r, ok := a.mgr.Resolve(target); ok {
		return r, nil
	}
	return model.AppRecord{}, fmt.Errorf("no application named %q in history or catalog", target)
}
