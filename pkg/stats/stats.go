// Package stats summarises CSV columns so charts can size their scales.
package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindEmpty       Kind = "empty"
)

// ColumnSummary describes one column of a dataset.
type ColumnSummary struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Count int    `json:"count"`
	Empty int    `json:"empty"`

	// Numeric columns only.
	Numeric *NumericSummary `json:"numeric,omitempty"`

	// Categorical columns only.
	Distinct int `json:"distinct,omitempty"`
}

// NumericSummary holds the distribution of a numeric column.
type NumericSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// Describe summarises every column of rows, in header order.
// A column is numeric when all of its non-empty values parse as finite
// numbers.
func Describe(rows []csvload.Row) []ColumnSummary {
	if len(rows) == 0 {
		return nil
	}

	columns := rows[0].Columns
	summaries := make([]ColumnSummary, 0, len(columns))
	for i, name := range columns {
		values := make([]string, 0, len(rows))
		for _, row := range rows {
			values = append(values, row.Values[i])
		}
		summaries = append(summaries, describeColumn(name, values))
	}
	return summaries
}

func describeColumn(name string, values []string) ColumnSummary {
	summary := ColumnSummary{Name: name, Count: len(values)}

	var (
		numbers  stats.Float64Data
		distinct = make(map[string]bool)
		numeric  = true
	)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			summary.Empty++
			continue
		}
		distinct[v] = true
		if !numeric {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			numeric = false
			continue
		}
		numbers = append(numbers, f)
	}

	switch {
	case summary.Empty == summary.Count:
		summary.Kind = KindEmpty
	case numeric:
		summary.Kind = KindNumeric
		summary.Numeric = summarize(numbers)
	default:
		summary.Kind = KindCategorical
		summary.Distinct = len(distinct)
	}

	return summary
}

// summarize computes the distribution of a non-empty sample.
// The stats package only errors on empty input, which callers exclude.
func summarize(data stats.Float64Data) *NumericSummary {
	s := &NumericSummary{}
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	s.P25, _ = data.Percentile(25)
	s.P75, _ = data.Percentile(75)
	return s
}

// Extent returns the min and max of a numeric column by name.
func Extent(summaries []ColumnSummary, name string) (lo, hi float64, ok bool) {
	for _, s := range summaries {
		if s.Name == name && s.Numeric != nil {
			return s.Numeric.Min, s.Numeric.Max, true
		}
	}
	return 0, 0, false
}
