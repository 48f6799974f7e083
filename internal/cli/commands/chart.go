package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chartcsv/pkg/datasets"
	"github.com/ccollicutt/chartcsv/pkg/output"
)

// ChartOptions holds command-line options for the chart command.
type ChartOptions struct {
	CommonOptions

	Output  string
	Verbose bool
	Quiet   bool
	MaxRows int
}

// NewChartCommand creates the chart command.
func NewChartCommand() *cobra.Command {
	opts := &ChartOptions{}

	cmd := &cobra.Command{
		Use:   "chart [dataset]...",
		Short: "Load chart datasets as typed records",
		Long: fmt.Sprintf(`Load the named chart datasets (all of them if none are given) and print
the records each chart draws.

Datasets: %s

Each dataset loads independently; one failing does not stop the others.`, strings.Join(datasets.Names(), ", ")),
		ValidArgs: datasets.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, &opts.CommonOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", 0, "Print at most this many records per dataset in text output (0 = all)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show timing details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")

	return cmd
}

func runChart(cmd *cobra.Command, args []string, opts *ChartOptions) error {
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

	selected, err := selectDatasets(env.catalog, args)
	if err != nil {
		return err
	}

	started := time.Now()
	results := datasets.LoadAll(ctx, env.loader, selected, maxConcurrentLoads)

	reports := make([]output.DatasetReport, len(results))
	for i, r := range results {
		reports[i] = output.DatasetReport{
			Name:    r.Dataset.Name,
			Source:  r.Dataset.Path,
			Count:   r.Count,
			Records: r.Records,
		}
		if r.Err != nil {
			reports[i].Error = r.Err.Error()
		}
	}

	return writeReport(cmd, formatter, output.NewReport(reports, opts.ConfigFile, started))
}

func selectDatasets(catalog *datasets.Catalog, names []string) ([]datasets.Dataset, error) {
	if len(names) == 0 {
		return catalog.All(), nil
	}

	selected := make([]datasets.Dataset, 0, len(names))
	for _, name := range names {
		d, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown dataset %q (use %s)", name, strings.Join(datasets.Names(), ", "))
		}
		selected = append(selected, d)
	}
	return selected, nil
}
