package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders load results in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds timing details.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// MaxRows limits the records printed per dataset in text output.
	// Zero prints all records.
	MaxRows int
}

// New returns the formatter for name (text or json).
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
