package config

import (
	"encoding/json"
	"os"

	"anonboard/internal/flagx"
	"anonboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the cadence either as a string like
// "3s" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerURL    string         `json:"server_url"`
	PollInterval timex.Duration `json:"poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the current values. Panics on
// read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
}
