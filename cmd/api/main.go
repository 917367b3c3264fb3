// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	app "finledger/internal"
	"finledger/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create and initialize the application
	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		util.GetLogger().Error("Failed to initialize application", "error", err)
		_ = application.Shutdown(context.Background())
		os.Exit(1)
	}

	server := application.NewHTTPServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		application.Logger.Info("Starting HTTP server", "port", application.Config.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown once a signal arrives or the server fails.
	g.Go(func() error {
		<-gctx.Done()
		application.Logger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		application.Logger.Error("HTTP server failed", "error", err)
		exitCode = 1
	}

	// Perform application-level shutdown (e.g., close DB connections)
	if err := application.Shutdown(context.Background()); err != nil {
		application.Logger.Error("Application shutdown failed", "error", err)
		exitCode = 1
	}

	if exitCode == 0 {
		application.Logger.Info("Application gracefully stopped.")
	}
	os.Exit(exitCode)
}
