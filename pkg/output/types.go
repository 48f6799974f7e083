// Package output provides formatting and output generation for load results.
package output

import (
	"time"

	"github.com/ccollicutt/chartcsv/pkg/stats"
)

// Report is the complete output of one command run.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Datasets holds one entry per loaded resource, in request order.
	Datasets []DatasetReport `json:"datasets"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// DatasetReport is the outcome of loading one resource.
type DatasetReport struct {
	// Name is the chart dataset name, empty for ad-hoc paths.
	Name string `json:"name,omitempty"`

	// Source is the path or URL that was loaded.
	Source string `json:"source"`

	// Count is the number of records returned.
	Count int `json:"count"`

	// Records is the slice of loaded records.
	Records any `json:"records,omitempty"`

	// Columns holds column statistics when requested.
	Columns []stats.ColumnSummary `json:"columns,omitempty"`

	// Error is the load error message, if the load failed.
	Error string `json:"error,omitempty"`
}

// Summary provides aggregate counts.
type Summary struct {
	Sources int `json:"sources"`
	Loaded  int `json:"loaded"`
	Failed  int `json:"failed"`
	Records int `json:"records"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"configFile,omitempty"`

	// LoadedAt is when loading finished.
	LoadedAt time.Time `json:"loadedAt"`

	// Duration is how long loading took.
	Duration time.Duration `json:"duration"`
}

// NewReport builds a Report and its summary from dataset results.
func NewReport(datasets []DatasetReport, configFile string, started time.Time) *Report {
	now := time.Now()
	report := &Report{
		Datasets: datasets,
		Metadata: Metadata{
			ConfigFile: configFile,
			LoadedAt:   now,
			Duration:   now.Sub(started),
		},
		Summary: Summary{Sources: len(datasets)},
	}

	for _, d := range datasets {
		if d.Error != "" {
			report.Summary.Failed++
			continue
		}
		report.Summary.Loaded++
		report.Summary.Records += d.Count
	}

	return report
}

// HasErrors returns true if any resource failed to load.
func (r *Report) HasErrors() bool {
	return r.Summary.Failed > 0
}
