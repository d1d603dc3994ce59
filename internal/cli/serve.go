package cli

import (
	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/internal/server"
)

// serveCommand creates the HTTP dashboard server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP stats and poster server",
		Long: `Serve listening statistics and poster generation over HTTP.

Endpoints:
  GET  /healthz                    liveness check
  GET  /api/stats/top-artists      most played artists
  GET  /api/stats/top-tracks       most played tracks
  GET  /api/stats/listening-clock  plays by hour of day
  POST /api/posters                generate a poster
  GET  /outputs/...                generated poster files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newHistoryStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.New(store, cfg.Poster.OutputDir, c.Logger)
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")

	return cmd
}
