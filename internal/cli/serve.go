package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the brickfall HTTP API.

Endpoints:
  POST /v1/analyze                          analyze a snapshot (lines or JSON)
  GET  /v1/reports                          list saved reports
  GET  /v1/reports/{id}                     fetch a report (?format=yaml)
  GET  /v1/reports/{id}/dot                 support graph as DOT (?remove=, ?detailed=)
  GET  /v1/reports/{id}/bricks/{brick}/fall bricks that fall when {brick} is removed
  GET  /healthz                             liveness probe

Reports are cached and stored with the backends from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	srv := server.New(server.Config{
		Runner:  runner,
		Store:   st,
		Logger:  c.Logger,
		Workers: c.Config.Analysis.Workers,
	})
	c.Logger.Info("Starting API", "addr", addr, "cache", c.Config.Cache.Backend, "store", c.Config.Store.Backend)

	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
