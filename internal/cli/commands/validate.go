package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chartcsv/pkg/config"
	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/datasets"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chartcsv configuration file without loading any data.

Checks:
  - YAML syntax
  - Environment overrides
  - Source URL, timeouts and size limits
  - Dataset names (scatter, donut, bar, line) and duplicates
  - Dataset file existence for local sources (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	catalog, err := datasets.NewCatalog(cfg.DatasetPaths())
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration valid!\n")
	_, _ = fmt.Fprintf(out, "  Source:   %s\n", cfg.Source)
	_, _ = fmt.Fprintf(out, "  Timeout:  %s\n", cfg.Timeout)
	_, _ = fmt.Fprintf(out, "  Server:   %s\n", cfg.Server.Addr)
	_, _ = fmt.Fprintf(out, "  Logging:  %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)

	_, _ = fmt.Fprintf(out, "\nDatasets:\n")
	for i, d := range catalog.All() {
		_, _ = fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, d.Name, d.Path)
		if d.Description != "" {
			_, _ = fmt.Fprintf(out, "     %s\n", d.Description)
		}
	}

	// Remote sources are only checked when loaded.
	if csvload.IsURL(cfg.Source) {
		return nil
	}

	var missing int
	for _, d := range catalog.All() {
		if csvload.IsURL(d.Path) {
			continue
		}
		path := d.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Source, path)
		}
		if _, err := os.Stat(path); err != nil {
			_, _ = fmt.Fprintf(out, "\nWarning: dataset %s: %s not found\n", d.Name, path)
			missing++
		}
	}
	if missing == 0 {
		_, _ = fmt.Fprintf(out, "\nAll %d dataset files found\n", len(catalog.All()))
	}

	return nil
}
