package config

import (
	"flag"
	"os"
	"time"

	"anonboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the board server (default from Config)
//	-i int      watch cadence override in seconds, 0 follows the server
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the board server")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "watch cadence override (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
