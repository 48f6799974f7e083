package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/output"
)

// DescribeOptions holds command-line options for the describe command.
type DescribeOptions struct {
	CommonOptions

	Output   string
	Required []string
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	opts := &DescribeOptions{}

	cmd := &cobra.Command{
		Use:   "describe <path>...",
		Short: "Summarise the columns of CSV resources",
		Long: `Load CSV resources and summarise each column.

Numeric columns report min, max, mean, median, standard deviation and
quartiles, which charts use to size their scales. Other columns report
their number of distinct values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, &opts.CommonOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSliceVarP(&opts.Required, "require", "r", nil, "Column that must be present (can be repeated)")

	return cmd
}

func runDescribe(cmd *cobra.Command, args []string, opts *DescribeOptions) error {
	ctx := commandContext(cmd)

	formatter, err := output.New(opts.Output, output.FormatOptions{})
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
			reports[i] = loadPath(ctx, env.loader, path, opts.Required, false, true)
			return nil
		})
	}
	_ = g.Wait()

	return writeReport(cmd, formatter, output.NewReport(reports, opts.ConfigFile, started))
}
