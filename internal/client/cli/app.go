// Package cli is the interactive terminal client of the board. It drives the
// HTTP API through a small REPL and polls the feed at the server-advertised
// cadence while watching.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"anonboard/internal/client/api"
	"anonboard/internal/client/config"
)

type App struct {
	config   *config.Config
	api      *api.Client
	reader   *bufio.Reader
	out      io.Writer
	userName string
	isAdmin  bool

	// lastInterval is the cadence the server advertised with the most
	// recent feed, in seconds.
	lastInterval int64
	// printed is how many log messages have already been shown, so watch
	// only prints the delta.
	printed int
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
