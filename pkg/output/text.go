package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ccollicutt/chartcsv/pkg/stats"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "chartcsv: %d source(s), %d loaded, %d failed, %d records\n",
		report.Summary.Sources,
		report.Summary.Loaded,
		report.Summary.Failed,
		report.Summary.Records)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== chartcsv Load Report ===")
	fmt.Fprintln(w)

	for i := range report.Datasets {
		if err := f.formatDataset(&report.Datasets[i], w); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d source(s), %d loaded, %d failed, %d total records\n",
		report.Summary.Sources,
		report.Summary.Loaded,
		report.Summary.Failed,
		report.Summary.Records)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatDataset(d *DatasetReport, w io.Writer) error {
	if d.Name != "" {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(d.Name), d.Source)
	} else {
		fmt.Fprintf(w, "[CSV] %s\n", d.Source)
	}

	if d.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", d.Error)
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintf(w, "  %d record(s)\n", d.Count)

	if d.Records != nil {
		table, err := TableOf(d.Records)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", d.Source, err)
		}
		f.formatTable(table, w)
	}

	if len(d.Columns) > 0 {
		fmt.Fprintln(w, "  Columns:")
		f.formatColumns(d.Columns, w)
	}

	fmt.Fprintln(w)
	return nil
}

func (f *TextFormatter) formatTable(t Table, w io.Writer) {
	if len(t.Columns) == 0 {
		return
	}

	rows := t.Rows
	truncated := 0
	if f.opts.MaxRows > 0 && len(rows) > f.opts.MaxRows {
		truncated = len(rows) - f.opts.MaxRows
		rows = rows[:f.opts.MaxRows]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\n", strings.Join(t.Columns, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	_ = tw.Flush()

	if truncated > 0 {
		fmt.Fprintf(w, "  ... %d more\n", truncated)
	}
}

func (f *TextFormatter) formatColumns(columns []stats.ColumnSummary, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range columns {
		switch c.Kind {
		case stats.KindNumeric:
			n := c.Numeric
			fmt.Fprintf(tw, "  - %s\t%s\tmin=%g\tmax=%g\tmean=%.4g\tmedian=%g\n",
				c.Name, c.Kind, n.Min, n.Max, n.Mean, n.Median)
		case stats.KindCategorical:
			fmt.Fprintf(tw, "  - %s\t%s\tdistinct=%d\tempty=%d\n", c.Name, c.Kind, c.Distinct, c.Empty)
		default:
			fmt.Fprintf(tw, "  - %s\t%s\n", c.Name, c.Kind)
		}
	}
	_ = tw.Flush()
}
