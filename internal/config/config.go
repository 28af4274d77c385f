// Package config loads the tln configuration from TOML with documented
// defaults for every value, so a missing or partial file always yields a
// usable configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/tln/internal/util"
)

// Config is the main configuration.
type Config struct {
	Navigator NavigatorConfig `toml:"navigator"`
	Feed      FeedConfig      `toml:"feed"`
	Remote    RemoteConfig    `toml:"remote"`
	Analytics AnalyticsConfig `toml:"analytics"`
	UI        UIConfig        `toml:"ui"`
}

// NavigatorConfig holds the navigation core settings. Durations are
// human-friendly strings ("60s", "10ms").
type NavigatorConfig struct {
	DataWindow       string  `toml:"data_window"`       // Initial data range duration
	TickPeriod       string  `toml:"tick_period"`       // Playback animation tick
	SelectionPadding float64 `toml:"selection_padding"` // ZoomToSelection padding ratio
}

// FeedConfig holds settings for the live sample feed.
type FeedConfig struct {
	Path     string `toml:"path"`     // JSONL sample file to tail
	Throttle string `toml:"throttle"` // Minimum interval between extent updates
}

// RemoteConfig holds the cross-process control facet settings.
type RemoteConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"` // Host:port for the control server
}

// AnalyticsConfig holds navigation analytics logging settings.
type AnalyticsConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// UIConfig holds dashboard settings.
type UIConfig struct {
	Theme   string `toml:"theme"`   // "dark" or "light"
	Refresh string `toml:"refresh"` // Dashboard redraw interval
}

// Default returns the configuration with every documented default applied.
func Default() *Config {
	return &Config{
		Navigator: NavigatorConfig{
			DataWindow:       "60s",
			TickPeriod:       "10ms",
			SelectionPadding: 0.1,
		},
		Feed: FeedConfig{
			Path:     "~/.local/share/tln/samples.jsonl",
			Throttle: "50ms",
		},
		Remote: RemoteConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7323",
		},
		Analytics: AnalyticsConfig{
			Enabled:       true,
			Path:          "~/.config/tln/analytics/events.jsonl",
			RetentionDays: 30,
		},
		UI: UIConfig{
			Theme:   "dark",
			Refresh: "100ms",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tln", "config.toml")
}

// Load loads configuration from a file, applying defaults for anything
// the file leaves unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(cfg)

	if listen := os.Getenv("TLN_REMOTE_LISTEN"); listen != "" {
		cfg.Remote.Listen = listen
		cfg.Remote.Enabled = true
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Navigator.DataWindow == "" {
		cfg.Navigator.DataWindow = d.Navigator.DataWindow
	}
	if cfg.Navigator.TickPeriod == "" {
		cfg.Navigator.TickPeriod = d.Navigator.TickPeriod
	}
	if cfg.Navigator.SelectionPadding <= 0 {
		cfg.Navigator.SelectionPadding = d.Navigator.SelectionPadding
	}
	if cfg.Feed.Path == "" {
		cfg.Feed.Path = d.Feed.Path
	}
	if cfg.Feed.Throttle == "" {
		cfg.Feed.Throttle = d.Feed.Throttle
	}
	if cfg.Remote.Listen == "" {
		cfg.Remote.Listen = d.Remote.Listen
	}
	if cfg.Analytics.Path == "" {
		cfg.Analytics.Path = d.Analytics.Path
	}
	if cfg.Analytics.RetentionDays == 0 {
		cfg.Analytics.RetentionDays = d.Analytics.RetentionDays
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = d.UI.Theme
	}
	if cfg.UI.Refresh == "" {
		cfg.UI.Refresh = d.UI.Refresh
	}
}

// DataWindowDuration parses the configured data window duration.
func (c NavigatorConfig) DataWindowDuration() (time.Duration, error) {
	return util.ParseDuration(c.DataWindow)
}

// TickPeriodDuration parses the configured playback tick period.
func (c NavigatorConfig) TickPeriodDuration() (time.Duration, error) {
	return util.ParseDuration(c.TickPeriod)
}

// ThrottleDuration parses the configured feed throttle interval.
func (c FeedConfig) ThrottleDuration() (time.Duration, error) {
	return util.ParseDuration(c.Throttle)
}

// RefreshDuration parses the configured dashboard redraw interval.
func (c UIConfig) RefreshDuration() (time.Duration, error) {
	return util.ParseDuration(c.Refresh)
}

// ExpandPath expands a leading ~ in configured paths.
func ExpandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
