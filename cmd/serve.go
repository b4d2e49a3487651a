package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rug-factory/rug-sim/sim/allocator"
)

var (
	serveScriptPath string // YAML response script to serve
	serveAddr       string // Listen address
	serveLogLevel   string // Log verbosity level
)

// serveCmd runs a scripted allocation service, for offline runs against the HTTP client
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scripted allocation responses on /next",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(serveLogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", serveLogLevel)
		}
		logrus.SetLevel(level)

		if serveScriptPath == "" {
			logrus.Fatalf("No response script provided. Use --script.")
		}
		script, err := allocator.LoadScript(serveScriptPath)
		if err != nil {
			logrus.Fatalf("unable to load allocation script: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := serve(ctx, serveAddr, allocator.NewServer(script)); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// serve listens on addr until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Allocation service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down allocation service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().StringVar(&serveScriptPath, "script", "", "YAML response script to serve")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "0.0.0.0:8080", "Listen address")
	serveCmd.Flags().StringVar(&serveLogLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(serveCmd)
}
