// Package config handles configuration for the CLI client, including
// defaults, JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the board CLI.
//
// Fields:
//   - ServerURL: base URL of the board server.
//   - PollInterval: local override of the watch cadence. Zero means follow
//     the interval the server advertises with every feed.
type Config struct {
	ServerURL    string
	PollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.PollInterval = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
