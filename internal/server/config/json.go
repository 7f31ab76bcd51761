package config

import (
	"encoding/json"
	"os"

	"anonboard/internal/flagx"
	"anonboard/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// It uses timex.Duration for the timeout, which allows parsing both string
// values such as "15s" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	ListenAddr     string         `json:"listen_addr"`
	RemoteURL      string         `json:"remote_db_url"`
	RemoteAPIKey   string         `json:"remote_api_key"`
	IdentityAPIKey string         `json:"identity_api_key"`
	AdminUser      string         `json:"admin_username"`
	AdminPass      string         `json:"admin_password"`
	DatabaseDir    string         `json:"database_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Only fields present in the file
// override the current values. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.RemoteURL != "" {
		config.RemoteURL = c.RemoteURL
	}
	if c.RemoteAPIKey != "" {
		config.RemoteAPIKey = c.RemoteAPIKey
	}
	if c.IdentityAPIKey != "" {
		config.IdentityAPIKey = c.IdentityAPIKey
	}
	if c.AdminUser != "" {
		config.AdminUser = c.AdminUser
	}
	if c.AdminPass != "" {
		config.AdminPass = c.AdminPass
	}
	if c.DatabaseDir != "" {
		config.DatabaseDir = c.DatabaseDir
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}
