// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and
// command-line flags.
package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the board server.
//
// Fields:
//   - ListenAddr: bind address for the public HTTP endpoint.
//   - RemoteURL: base URL of the remote document store. Empty means
//     local-only mode.
//   - RemoteAPIKey: auth token appended to remote store requests.
//   - IdentityAPIKey: API key for the hosted identity backend. Empty means
//     credentials are checked against local password hashes.
//   - AdminUser / AdminPass: bootstrap administrator credentials.
//   - DatabaseDir: directory of the local JSON fallback files.
//   - RequestTimeout: read/write timeout of the HTTP server.
type Config struct {
	ListenAddr     string
	RemoteURL      string
	RemoteAPIKey   string
	IdentityAPIKey string
	AdminUser      string
	AdminPass      string
	DatabaseDir    string
	RequestTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: The admin credentials are insecure and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.RemoteURL = ""
	c.RemoteAPIKey = ""
	c.IdentityAPIKey = ""
	c.AdminUser = "Harsh"
	c.AdminPass = "hVm@723"
	c.DatabaseDir = "database"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.RemoteURL = strings.TrimRight(cfg.RemoteURL, "/")
	return cfg
}
