package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes the report as indented JSON. With Quiet set only
// the summary is written.
type JSONFormatter struct {
	opts FormatOptions
}

func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

func (f *JSONFormatter) Name() string { return "json" }

// Format encodes report to w. CSV cell text is written as-is, without
// HTML escaping of <, > and &.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = report
	if f.opts.Quiet {
		v = report.Summary
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}
