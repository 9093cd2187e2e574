package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patrol/internal/server"
	"github.com/matzehuels/patrol/pkg/buildinfo"
)

// serveCommand creates the serve command.
//
// The server shares one pipeline.Runner (and so one cache) across requests and
// installs Prometheus-backed observability hooks before it starts listening.
// Flags left unset fall back to the config file; SIGINT drains in-flight
// requests before exiting.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		workers  int
		maxSteps int
		timeout  time.Duration
		noCache  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve analyses over HTTP",
		Long: `Serve starts an HTTP API:

  POST /v1/analyze   grid text in the body, JSON counts out (?loops=1, ?refresh=1)
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			opts := c.pipelineOptions(cmd, workers, maxSteps, false)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := server.NewMetrics()
			metrics.Install()

			c.Logger.Info("starting server", "version", buildinfo.Short(), "addr", addr)
			srv := server.New(runner, c.Logger, metrics, server.Options{
				Workers:        opts.Workers,
				MaxSteps:       opts.MaxSteps,
				RequestTimeout: timeout,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent obstruction trials per request (default GOMAXPROCS)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "fail any walk longer than this many steps (0 = unlimited)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request analysis timeout (0 = none)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
