// Package config loads applaunch settings from APPLAUNCH_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mj1618/applaunch/internal/platform"
)

// Prefix is the environment variable prefix for every setting.
const Prefix = "APPLAUNCH"

// Config holds all application configuration. Nested sections map to
// APPLAUNCH_<SECTION>_<KEY>, e.g. APPLAUNCH_STORE_BACKEND or
// APPLAUNCH_WATCH_RUNNING_INTERVAL.
type Config struct {
	Store StoreConfig
	Scan  ScanConfig
	Watch WatchConfig
	Kill  KillConfig
	Log   LogConfig
	Keys  KeyConfig
}

// StoreConfig selects the settings store backend.
type StoreConfig struct {
	Backend string `split_words:"true" default:"file"`
	Path    string `split_words:"true"`
}

// ScanConfig controls the installed-app directory scan.
type ScanConfig struct {
	Dirs     []string `split_words:"true" default:"/Applications,/Applications/Utilities,/System/Applications,/Library/Application Support"`
	UserApps bool     `split_words:"true" default:"false"`
	Suffix   string   `split_words:"true" default:".app"`
}

// WatchConfig holds polling intervals.
type WatchConfig struct {
	RunningInterval  time.Duration `split_words:"true" default:"2s"`
	ModifierInterval time.Duration `split_words:"true" default:"100ms"`
	SnapshotTTL      time.Duration `split_words:"true" default:"500ms"`
}

// KillConfig holds the delays between termination tiers.
type KillConfig struct {
	GraceDelay time.Duration `split_words:"true" default:"2s"`
	ForceDelay time.Duration `split_words:"true" default:"1s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `split_words:"true" default:"info"`
	Development bool   `split_words:"true" default:"false"`
}

// KeyConfig names the physical keys behind the two logical modifiers.
type KeyConfig struct {
	Alternate string `split_words:"true" default:"option"`
	Filter    string `split_words:"true" default:"command"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "file",
		},
		Scan: ScanConfig{
			Dirs: []string{
				"/Applications",
				"/Applications/Utilities",
				"/System/Applications",
				"/Library/Application Support",
			},
			Suffix: ".app",
		},
		Watch: WatchConfig{
			RunningInterval:  2 * time.Second,
			ModifierInterval: 100 * time.Millisecond,
			SnapshotTTL:      500 * time.Millisecond,
		},
		Kill: KillConfig{
			GraceDelay: 2 * time.Second,
			ForceDelay: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Keys: KeyConfig{
			Alternate: "option",
			Filter:    "command",
		},
	}
}

// Validate rejects settings that would make a component misbehave.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unsupported store backend: %q (use file or sqlite)", c.Store.Backend)
	}
	if c.Scan.Suffix == "" {
		return fmt.Errorf("bundle suffix must not be empty")
	}
	if c.Watch.RunningInterval <= 0 || c.Watch.ModifierInterval <= 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	if c.Kill.GraceDelay < 0 || c.Kill.ForceDelay < 0 {
		return fmt.Errorf("kill delays must not be negative")
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return nil
}

// KeyMap resolves the configured modifier key names.
func (c *Config) KeyMap() (platform.KeyMap, error) {
	return platform.ParseKeyMap(c.Keys.Alternate, c.Keys.Filter)
}

// ScanDirs returns the directories to scan, including ~/Applications when
// enabled.
func (c *Config) ScanDirs() []string {
	dirs := append([]string(nil), c.Scan.Dirs...)
	if c.Scan.UserApps {
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, "Applications"))
		}
	}
	return dirs
}

// StorePath returns the settings store location, defaulting to a file under
// the user config directory named after the backend.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	name := "settings.json"
	if c.Store.Backend == "sqlite" {
		name = "settings.db"
	}
	return filepath.Join(dir, name), nil
}

// ConfigDir returns the directory holding applaunch state.
func ConfigDir() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil || cfgDir == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("no config or home directory: %v, %v", err, herr)
		}
		cfgDir = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgDir, "applaunch"), nil
}
