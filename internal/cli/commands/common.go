package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chartcsv/pkg/config"
	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/datasets"
	"github.com/ccollicutt/chartcsv/pkg/logging"
	"github.com/ccollicutt/chartcsv/pkg/output"
	"github.com/ccollicutt/chartcsv/pkg/stats"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// CommonOptions are the flags shared by commands that load data.
type CommonOptions struct {
	ConfigFile string
	Source     string
	LogLevel   string
	LogFormat  string
}

func addCommonFlags(cmd *cobra.Command, opts *CommonOptions) {
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Directory or base URL that relative paths are read from")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "", "Log format (text|json)")
}

// environment is everything a command needs to load data.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	loader  *csvload.Loader
	catalog *datasets.Catalog
}

// newEnvironment loads configuration, applies flag overrides, and builds
// the logger, loader, and dataset catalog. Logs go to logOut.
func newEnvironment(ctx context.Context, opts *CommonOptions, logOut io.Writer, observer csvload.Observer) (*environment, error) {
	cfg, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.Source != "" {
		cfg.Source = opts.Source
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger, err := logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	fetcher, err := csvload.NewSourceFetcher(cfg.Source, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	catalog, err := datasets.NewCatalog(cfg.DatasetPaths())
	if err != nil {
		return nil, fmt.Errorf("creating dataset catalog: %w", err)
	}

	loader := csvload.New(fetcher,
		csvload.WithLogger(logger),
		csvload.WithMaxBytes(cfg.MaxBodyBytes),
		csvload.WithObserver(observer),
	)

	return &environment{
		cfg:     cfg,
		logger:  logger,
		loader:  loader,
		catalog: catalog,
	}, nil
}

// loadPath loads the raw rows of one resource into a report entry.
func loadPath(ctx context.Context, l *csvload.Loader, path string, required []string, withRecords, withStats bool) output.DatasetReport {
	report := output.DatasetReport{Source: path}

	rows, err := csvload.LoadRows(ctx, l, path, required...)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Count = len(rows)
	if withRecords {
		report.Records = rows
	}
	if withStats {
		report.Columns = stats.Describe(rows)
	}
	return report
}

// writeReport formats report to the command's output and sets ExitCode.
func writeReport(cmd *cobra.Command, formatter output.Formatter, report *output.Report) error {
	if err := formatter.Format(commandContext(cmd), report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasErrors() {
		ExitCode = 1
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
