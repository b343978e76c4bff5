package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/applaunch/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Store.Backend, cfg.Store.Backend)
	assert.Equal(t, def.Scan.Dirs, cfg.Scan.Dirs)
	assert.Equal(t, ".app", cfg.Scan.Suffix)
	assert.Equal(t, 2*time.Second, cfg.Watch.RunningInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.ModifierInterval)
	assert.Equal(t, 2*time.Second, cfg.Kill.GraceDelay)
	assert.Equal(t, time.Second, cfg.Kill.ForceDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APPLAUNCH_STORE_BACKEND", "sqlite")
	t.Setenv("APPLAUNCH_STORE_PATH", "/tmp/applaunch.db")
	t.Setenv("APPLAUNCH_SCAN_DIRS", "/Apps,/More Apps")
	t.Setenv("APPLAUNCH_WATCH_RUNNING_INTERVAL", "5s")
	t.Setenv("APPLAUNCH_KILL_GRACE_DELAY", "250ms")
	t.Setenv("APPLAUNCH_LOG_LEVEL", "debug")
	t.Setenv("APPLAUNCH_KEYS_FILTER", "shift")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/applaunch.db", cfg.Store.Path)
	assert.Equal(t, []string{"/Apps", "/More Apps"}, cfg.Scan.Dirs)
	assert.Equal(t, 5*time.Second, cfg.Watch.RunningInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.Kill.GraceDelay)
	assert.Equal(t, "debug", cfg.Log.Level)

	km, err := cfg.KeyMap()
	require.NoError(t, err)
	assert.Equal(t, platform.FlagMaskShift, km.Secondary)
}

func TestLoad_RejectsBadBackend(t *testing.T) {
	t.Setenv("APPLAUNCH_STORE_BACKEND", "redis")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	t.Setenv("APPLAUNCH_WATCH_RUNNING_INTERVAL", "not-a-duration")
	cfg := LoadOrDefault()
	assert.Equal(t, Default().Watch.RunningInterval, cfg.Watch.RunningInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty suffix", func(c *Config) { c.Scan.Suffix = "" }},
		{"zero interval", func(c *Config) { c.Watch.ModifierInterval = 0 }},
		{"negative delay", func(c *Config) { c.Kill.ForceDelay = -time.Second }},
		{"same keys", func(c *Config) { c.Keys.Filter = "option" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	cfg.Store.Path = "/explicit/settings.json"
	p, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "/explicit/settings.json", p)

	cfg.Store.Path = ""
	cfg.Store.Backend = "sqlite"
	p, err = cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "settings.db", filepath.Base(p))
	assert.Equal(t, "applaunch", filepath.Base(filepath.Dir(p)))
}

func TestScanDirs_UserApps(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Equal(t, cfg.Scan.Dirs, cfg.ScanDirs())

	cfg.Scan.UserApps = true
	dirs := cfg.ScanDirs()
	require.Len(t, dirs, len(cfg.Scan.Dirs)+1)
	assert.Equal(t, filepath.Join(home, "Applications"), dirs[len(dirs)-1])
}
