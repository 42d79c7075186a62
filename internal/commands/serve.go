package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/api"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the study tracker API under /api until interrupted.

Examples:
  studytrack serve
  studytrack serve --addr 127.0.0.1:9000
  studytrack serve --config studytrack.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}

			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("database ready", "path", cfg.Database.Path)
			return api.New(store, logger).Run(ctx, api.Options{
				Address:         cfg.Server.Address,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and STUDYTRACK_ADDR)")
	return cmd
}
