package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/output"
)

// maxConcurrentLoads bounds how many resources a command loads at once.
const maxConcurrentLoads = 4

// LoadOptions holds command-line options for the load command.
type LoadOptions struct {
	CommonOptions

	Output   string
	Required []string
	Stats    bool
	Verbose  bool
	Quiet    bool
	MaxRows  int
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load <path>...",
		Short: "Load CSV files or URLs and print their rows",
		Long: `Load one or more CSV resources and print the parsed rows.

Paths may be files, glob patterns, or http(s) URLs. Relative paths are
resolved against --source (or the configured source).

Rows whose field count differs from the header, are logged and skipped.
A resource fails to load when it cannot be fetched, has no data rows,
lacks a --require'd column, or has no valid rows at all.

Exit codes:
  0 - All resources loaded
  1 - At least one resource failed to load
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, &opts.CommonOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSliceVarP(&opts.Required, "require", "r", nil, "Column that must be present (can be repeated)")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Include column statistics")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", 0, "Print at most this many rows per resource in text output (0 = all)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show timing details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no rows")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string, opts *LoadOptions) error {
	ctx := commandContext(cmd)

	formatter, err := output.New(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		MaxRows: opts.MaxRows,
	})
	if err != nil {
		return err
	}

	env, err := newEnvironment(ctx, &opts.CommonOptions, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}

	paths, err := csvload.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding paths: %w", err)
	}

	started := time.Now()
	reports := make([]output.DatasetReport, len(paths))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			reports[i] = loadPath(ctx, env.loader, path, opts.Required, true, opts.Stats)
			return nil
		})
	}
	_ = g.Wait()

	return writeReport(cmd, formatter, output.NewReport(reports, opts.ConfigFile, started))
}
