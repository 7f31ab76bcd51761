// Package server initializes and runs the board server. It wires the
// dual-backend store, the service layer and the HTTP facade, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"anonboard/internal/logging"
	"anonboard/internal/messages"
	"anonboard/internal/server/auth"
	"anonboard/internal/server/config"
	"anonboard/internal/server/services"
	"anonboard/internal/server/web"
	"anonboard/internal/settings"
	"anonboard/internal/store"
	"anonboard/internal/users"
)

const shutdownGrace = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *web.Handler
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	var remote *store.Remote
	if c.RemoteURL != "" {
		remote = store.NewRemote(c.RemoteURL, c.RemoteAPIKey)
	} else {
		logger.Warn(context.Background(), "remote store not configured, running local-only")
	}

	dual := store.NewDual(remote, store.NewFile(c.DatabaseDir), logger)

	board := services.NewBoard(
		users.NewDirectory(dual, logger),
		messages.NewLog(dual, logger),
		settings.NewStore(dual, logger),
		auth.NewIdentityClient(c.IdentityAPIKey, ""),
		auth.Bootstrap{Username: c.AdminUser, Password: c.AdminPass},
		logger,
	)

	handler := web.NewHandler(board, logger)

	return &App{config: c, logger: logger, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:         app.config.ListenAddr,
		Handler:      app.handler.Router(),
		ReadTimeout:  app.config.RequestTimeout,
		WriteTimeout: app.config.RequestTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.ListenAddr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
