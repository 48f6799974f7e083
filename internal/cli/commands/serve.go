package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chartcsv/pkg/metrics"
	"github.com/ccollicutt/chartcsv/pkg/server"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	CommonOptions

	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart datasets over HTTP",
		Long: `Serve the chart datasets as JSON for chart front-ends.

Endpoints:
  GET /healthz                    Liveness check
  GET /api/datasets               Dataset names, paths and required columns
  GET /api/datasets/{name}        Dataset records
  GET /api/datasets/{name}/stats  Column statistics of the raw rows
  GET /metrics                    Prometheus metrics

Datasets are loaded on every request, so edits to the CSV files show up
without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	addCommonFlags(cmd, &opts.CommonOptions)
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from config, \":8080\")")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	env, err := newEnvironment(ctx, &opts.CommonOptions, cmd.ErrOrStderr(), metrics.New(reg))
	if err != nil {
		return err
	}

	if opts.Addr != "" {
		env.cfg.Server.Addr = opts.Addr
	}

	srv := server.New(env.cfg.Server, env.loader, env.catalog, env.logger, reg)
	return srv.Start(ctx)
}
