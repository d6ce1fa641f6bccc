package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/frahmantamala/monthly-budget/internal/transport"
	"github.com/frahmantamala/monthly-budget/internal/transport/rest"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start HTTP server",
	Long:    `Start the local HTTP API over the budget state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	router := setupRoutes(deps)

	addr := deps.Config.Server.Addr()
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) *chi.Mux {
	router := chi.NewRouter()
	base := transport.NewBaseHandler(deps.Logger)

	var pinger rest.Pinger
	if deps.SQLDB != nil {
		pinger = deps.SQLDB
	}
	healthHandler := rest.NewHealthHandler(base, pinger, deps.Store)
	budgetHandler := budget.NewHandler(base, deps.Store)

	rest.RegisterAllRoutes(router, healthHandler, budgetHandler, deps.Logger)
	return router
}
