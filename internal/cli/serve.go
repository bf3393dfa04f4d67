package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/phishview/internal/app"
	"github.com/raysh454/phishview/internal/demoserver"
	"github.com/raysh454/phishview/internal/logging"
)

const shutdownGrace = 10 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the frontend web server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().String("backend", "", "Analysis backend base URL (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Analysis.BackendURL = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Log, "phishview")
	a, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Shutdown(context.Background()) }()

	s, err := a.NewServer()
	if err != nil {
		return err
	}

	logger.Info("frontend listening",
		logging.Field{Key: "addr", Value: cfg.Server.ListenAddr},
		logging.Field{Key: "backend", Value: a.Analysis.Endpoint()},
		logging.Field{Key: "webclient", Value: string(cfg.WebClient.Client)},
	)
	return runHTTP(cmd.Context(), s.HTTPServer(), logger)
}

func newDemoBackendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo-backend",
		Short: "Run a stand-in analysis backend that serves canned verdicts",
		Args:  cobra.NoArgs,
		RunE:  runDemoBackend,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().String("fixtures", "", "YAML fixture file (overrides config; default built-in set)")
	cmd.Flags().Bool("no-latency", false, "Ignore fixture latencies")
	return cmd
}

func runDemoBackend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Demo.Addr = v
	}
	if v, _ := cmd.Flags().GetString("fixtures"); v != "" {
		cfg.Demo.FixturesPath = v
	}
	if v, _ := cmd.Flags().GetBool("no-latency"); v {
		cfg.Demo.DisableLatency = true
	}

	logger := app.NewLogger(cfg.Log, "demo-backend")
	ds, err := demoserver.NewDemoServer(cfg.Demo, logger)
	if err != nil {
		return err
	}

	logger.Info("demo backend listening", logging.Field{Key: "addr", Value: cfg.Demo.Addr})
	return runHTTP(cmd.Context(), ds.HTTPServer(), logger)
}

// runHTTP serves until ctx ends or SIGINT/SIGTERM arrives, then drains.
func runHTTP(ctx context.Context, srv *http.Server, logger logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", logging.Field{Key: "addr", Value: srv.Addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
