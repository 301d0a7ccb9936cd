package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fact-check HTTP endpoint",
	Long: `Serve exposes the analysis pipeline over HTTP:

  POST /fact-check   {"content": "...", "type": "text|url|reddit", "options": {"includeComments": true}}
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics

Example:
  credence serve --addr :8080
  CREDENCE_PROBES_MODE=mock credence serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	// A server reports its own lifecycle even without --verbose
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	p := pipeline.NewPipeline(cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logger))
	srv := server.New(p, m, logger)

	logger.Info("starting credence",
		"version", Version,
		"addr", cfg.Server.Addr,
		"probe_mode", cfg.Probes.Mode,
		"cache", cfg.Cache.Enabled)

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
