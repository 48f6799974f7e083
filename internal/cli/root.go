// Package cli provides the command-line interface for chartcsv.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chartcsv/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chartcsv",
		Short: "Load and validate the CSV datasets behind charts",
		Long: `chartcsv loads CSV files or URLs, validates them against the columns a
chart needs, and turns each row into a typed record.

It serves four chart datasets:
  - scatter  TV energy use by screen size
  - donut    Mean energy use by screen technology, all sizes
  - bar      Mean energy use by screen technology, 55" TVs
  - line     Yearly average spot electricity price

Malformed rows are logged and skipped; a resource that cannot be fetched,
has no data, or lacks a required column fails to load.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewChartCommand())
	rootCmd.AddCommand(commands.NewDescribeCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
