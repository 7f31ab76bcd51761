package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it. Only variables that are actually set override the current
// values.
//
// Recognized variables:
//
//	LISTEN_ADDR       HTTP bind address
//	REMOTE_DB_URL     remote document store base URL
//	REMOTE_API_KEY    remote store auth token
//	IDENTITY_API_KEY  hosted identity backend API key
//	ADMIN_USERNAME    bootstrap admin username
//	ADMIN_PASSWORD    bootstrap admin password
//	DATABASE_DIR      local fallback directory
//	REQUEST_TIMEOUT   HTTP server timeout, seconds
func parseEnv(config *Config) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("LISTEN_ADDR"); ok {
		config.ListenAddr = v
	}
	if v, ok := os.LookupEnv("REMOTE_DB_URL"); ok {
		config.RemoteURL = v
	}
	if v, ok := os.LookupEnv("REMOTE_API_KEY"); ok {
		config.RemoteAPIKey = v
	}
	if v, ok := os.LookupEnv("IDENTITY_API_KEY"); ok {
		config.IdentityAPIKey = v
	}
	if v, ok := os.LookupEnv("ADMIN_USERNAME"); ok {
		config.AdminUser = v
	}
	if v, ok := os.LookupEnv("ADMIN_PASSWORD"); ok {
		config.AdminPass = v
	}
	if v, ok := os.LookupEnv("DATABASE_DIR"); ok {
		config.DatabaseDir = v
	}
	if v, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			config.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
}
