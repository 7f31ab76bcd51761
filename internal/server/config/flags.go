package config

import (
	"flag"
	"os"
	"time"

	"anonboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   remote document store base URL
//	-k string   remote store auth token
//	-i string   hosted identity backend API key
//	-u string   bootstrap admin username
//	-p string   bootstrap admin password
//	-d string   local fallback directory
//	-t int      HTTP server timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-k", "-i", "-u", "-p", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.RemoteURL, "r", config.RemoteURL, "remote document store base URL")
	fs.StringVar(&config.RemoteAPIKey, "k", config.RemoteAPIKey, "remote store auth token")
	fs.StringVar(&config.IdentityAPIKey, "i", config.IdentityAPIKey, "identity backend API key")
	fs.StringVar(&config.AdminUser, "u", config.AdminUser, "admin username")
	fs.StringVar(&config.AdminPass, "p", config.AdminPass, "admin password")
	fs.StringVar(&config.DatabaseDir, "d", config.DatabaseDir, "local fallback directory")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
