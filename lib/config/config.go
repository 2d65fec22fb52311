// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "CARTKIT_CONFIG"

// DefaultSocket is where the store service listens when no socket is
// configured.
const DefaultSocket = "/run/cartkit/store.sock"

// Duration is a time.Duration that unmarshals from YAML strings like
// "5s" or "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the master configuration for cartkit binaries.
type Config struct {
	// Socket is the Unix socket path of the store service.
	Socket string `yaml:"socket"`

	// StateDir is where durable client state (the session id) lives.
	StateDir string `yaml:"state_dir"`

	// Poll configures per-view refresh cadences.
	Poll PollConfig `yaml:"poll"`

	// Search configures the debounced product search.
	Search SearchConfig `yaml:"search"`

	// Dashboard configures the operations dashboard queries.
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// PollConfig holds the refresh interval for each polled view. Each
// view's registration is independent; intervals are fixed-rate
// relative to registration time.
type PollConfig struct {
	// Cart is the cart + billing refresh cadence in the shopper UI.
	Cart Duration `yaml:"cart"`

	// Recommendations is the recommendations refresh cadence.
	Recommendations Duration `yaml:"recommendations"`

	// Overview is the dashboard overview refresh cadence.
	Overview Duration `yaml:"overview"`

	// Reports is the cadence for the slower dashboard views (popular
	// products, active carts, alerts summary).
	Reports Duration `yaml:"reports"`
}

// SearchConfig configures the debounced product search.
type SearchConfig struct {
	// Quiet is the debounce quiet period: input must be stable this
	// long before a query is issued.
	Quiet Duration `yaml:"quiet"`

	// Limit is the maximum number of results per query.
	Limit int64 `yaml:"limit"`
}

// DashboardConfig configures the operations dashboard queries.
type DashboardConfig struct {
	// Days is the reporting window for popular products and the
	// alerts summary.
	Days int64 `yaml:"days"`

	// PopularLimit caps the popular products listing.
	PopularLimit int64 `yaml:"popular_limit"`
}

// Default returns the built-in configuration. Cadences match the
// original cart experience: near-real-time cart refresh, 5 second
// dashboard overview, slower reporting views, 500ms search debounce.
func Default() *Config {
	return &Config{
		Socket:   DefaultSocket,
		StateDir: defaultStateDir(),
		Poll: PollConfig{
			Cart:            Duration(5 * time.Second),
			Recommendations: Duration(30 * time.Second),
			Overview:        Duration(5 * time.Second),
			Reports:         Duration(30 * time.Second),
		},
		Search: SearchConfig{
			Quiet: Duration(500 * time.Millisecond),
			Limit: 20,
		},
		Dashboard: DashboardConfig{
			Days:         7,
			PopularLimit: 20,
		},
	}
}

// defaultStateDir returns $XDG_STATE_HOME/cartkit, falling back to
// ~/.local/state/cartkit.
func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "cartkit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cartkit")
	}
	return filepath.Join(home, ".local", "state", "cartkit")
}

// Load reads the configuration from path. If path is empty, the
// CARTKIT_CONFIG environment variable is consulted; if that is also
// empty, the defaults are returned. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validate rejects values the schedulers cannot work with.
func (cfg *Config) validate() error {
	if cfg.Socket == "" {
		return fmt.Errorf("socket must not be empty")
	}
	for name, d := range map[string]Duration{
		"poll.cart":            cfg.Poll.Cart,
		"poll.recommendations": cfg.Poll.Recommendations,
		"poll.overview":        cfg.Poll.Overview,
		"poll.reports":         cfg.Poll.Reports,
		"search.quiet":         cfg.Search.Quiet,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if cfg.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive")
	}
	if cfg.Dashboard.Days <= 0 {
		return fmt.Errorf("dashboard.days must be positive")
	}
	return nil
}
