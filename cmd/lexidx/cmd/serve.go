package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexidx/lexidx/internal/output"
	"github.com/lexidx/lexidx/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var indexPath string

	cmd := &cobra.Command{
		Use:   "serve [address]",
		Short: "Serve the search front-end over HTTP",
		Long: `Start the HTTP front-end.

Routes:
  GET  /             search page
  POST /api/search   tokenize the request body and return results
  GET  /api/stats    document and term counts of the index file
  GET  /metrics      Prometheus metrics

The address defaults to server.address from the config (127.0.0.1:6969).
Stop with Ctrl+C; in-flight requests are given server.shutdown_timeout.`,
		Example: `  lexidx serve
  lexidx serve 0.0.0.0:8080 --index docs.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := serverConfig(a, indexPath)
			if len(args) > 0 {
				cfg.Address = args[0]
			}

			srv, err := server.New(cfg, server.WithLogger(a.logger))
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Statusf("🌐", "Listening on http://%s", srv.Address())
			if cfg.IndexPath != "" {
				out.Statusf("📄", "Index: %s", cfg.IndexPath)
			}

			if err := srv.Run(ctx); err != nil {
				return err
			}
			out.Status("👋", "Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index file for /api/stats (default from config: index.path)")

	return cmd
}

// serverConfig maps the loaded configuration onto server.Config.
func serverConfig(a *app, indexPath string) server.Config {
	if indexPath == "" {
		indexPath = a.cfg.Index.Path
	}
	return server.Config{
		Address:         a.cfg.Server.Address,
		IndexPath:       indexPath,
		IndexFormat:     a.cfg.Index.Format,
		ReadTimeout:     a.cfg.Server.ReadTimeout,
		WriteTimeout:    a.cfg.Server.WriteTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		StatsCacheSize:  a.cfg.Server.StatsCacheSize,
		MaxBodyBytes:    a.cfg.Server.MaxBodyBytes,
	}
}
