package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httphandler "summerschool.lol/lolcoin/internal/infrastructure/http"
)

var serveCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "serve",
	Short: "Run the operator dashboard API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd, nil)
		if err != nil {
			return err
		}
		appLogger := a.logger

		ctx, stop := context.WithCancel(context.Background())
		defer stop()

		controllerDone := make(chan error, 1)
		go func() {
			controllerDone <- a.controller.Run(ctx)
		}()

		// Initialize HTTP handler
		handler := httphandler.NewHandler(a.controller, a.feed, a.recorder.Handler(), appLogger)

		// Create HTTP server
		addr := ":" + a.cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      handler.SetupRoutes(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		// Error channel to capture errors from server
		errChan := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			appLogger.LogInfo(ctx, "Starting server",
				"address", addr,
				"poll_interval", a.poller.Interval().String())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			// Create shutdown context with timeout
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}
			stop()
			<-controllerDone

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(serveCmd)
}
