package datasets

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

// Dataset names, one per chart.
const (
	Scatter = "scatter"
	Donut   = "donut"
	Bar     = "bar"
	Line    = "line"
)

// Dataset describes where a chart's CSV lives and what it must contain.
type Dataset struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Path            string   `json:"path" yaml:"path"`
	RequiredColumns []string `json:"requiredColumns" yaml:"required_columns"`
}

var screenTypeColumns = []string{ColScreenTechTitle, ColMeanEnergy}

var defaultDatasets = []Dataset{
	{
		Name:            Scatter,
		Description:     "Energy consumption against screen size for every TV model",
		Path:            "Ex5/Ex5_TV_energy.csv",
		RequiredColumns: []string{ColBrand, ColScreenTech, ColScreenSize, ColEnergyConsumpt, ColStar2},
	},
	{
		Name:            Donut,
		Description:     "Mean energy consumption by screen technology, all sizes",
		Path:            "Ex5/Ex5_TV_energy_Allsizes_byScreenType.csv",
		RequiredColumns: screenTypeColumns,
	},
	{
		Name:            Bar,
		Description:     "Mean energy consumption by screen technology, 55 inch TVs",
		Path:            "Ex5/Ex5_TV_energy_55inchtv_byScreenType.csv",
		RequiredColumns: screenTypeColumns,
	},
	{
		Name:        Line,
		Description: "Average yearly electricity spot price",
		Path:        "Ex5/Ex5_ARE_Spot_Prices_cleaned.csv",
	},
}

// Catalog is the set of chart datasets with any path overrides applied.
type Catalog struct {
	datasets []Dataset
}

// NewCatalog returns the default datasets with paths replaced from
// overrides, keyed by dataset name.
func NewCatalog(overrides map[string]string) (*Catalog, error) {
	c := &Catalog{datasets: make([]Dataset, len(defaultDatasets))}
	copy(c.datasets, defaultDatasets)

	for name, path := range overrides {
		i := c.index(name)
		if i < 0 {
			return nil, fmt.Errorf("unknown dataset %q (must be one of %s)", name, strings.Join(Names(), ", "))
		}
		if path != "" {
			c.datasets[i].Path = path
		}
	}

	return c, nil
}

// Names returns the dataset names in chart order.
func Names() []string {
	names := make([]string, len(defaultDatasets))
	for i, d := range defaultDatasets {
		names[i] = d.Name
	}
	return names
}

// All returns every dataset in chart order.
func (c *Catalog) All() []Dataset {
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// Lookup returns the named dataset.
func (c *Catalog) Lookup(name string) (Dataset, bool) {
	i := c.index(name)
	if i < 0 {
		return Dataset{}, false
	}
	return c.datasets[i], true
}

func (c *Catalog) index(name string) int {
	for i, d := range c.datasets {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// GetScatterPlotData loads the scatter chart records from path.
func GetScatterPlotData(ctx context.Context, l *csvload.Loader, path string) ([]ScatterPoint, error) {
	d := defaultDatasets[0]
	return csvload.Load(ctx, l, path, csvload.Options[ScatterPoint]{
		RequiredColumns: d.RequiredColumns,
		Transform:       ScatterTransform,
	})
}

// GetDonutChartData loads the donut chart records from path.
func GetDonutChartData(ctx context.Context, l *csvload.Loader, path string) ([]ScreenTypeEnergy, error) {
	return csvload.Load(ctx, l, path, csvload.Options[ScreenTypeEnergy]{
		RequiredColumns: screenTypeColumns,
		Transform:       ScreenTypeTransform,
	})
}

// GetBarChartData loads the bar chart records from path, sorted by
// ascending energy consumption. Donut records keep file order.
func GetBarChartData(ctx context.Context, l *csvload.Loader, path string) ([]ScreenTypeEnergy, error) {
	bars, err := GetDonutChartData(ctx, l, path)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].EnergyConsumption < bars[j].EnergyConsumption
	})
	return bars, nil
}

// GetLineGraphData loads the line chart records from path, sorted by date.
func GetLineGraphData(ctx context.Context, l *csvload.Loader, path string) ([]PricePoint, error) {
	points, err := csvload.Load(ctx, l, path, csvload.Options[PricePoint]{
		Transform: PriceTransform,
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

// Load loads the dataset's chart records.
func (d Dataset) Load(ctx context.Context, l *csvload.Loader) (any, error) {
	switch d.Name {
	case Scatter:
		out, err := GetScatterPlotData(ctx, l, d.Path)
		return records(out, err)
	case Donut:
		out, err := GetDonutChartData(ctx, l, d.Path)
		return records(out, err)
	case Bar:
		out, err := GetBarChartData(ctx, l, d.Path)
		return records(out, err)
	case Line:
		out, err := GetLineGraphData(ctx, l, d.Path)
		return records(out, err)
	default:
		return nil, fmt.Errorf("unknown dataset %q", d.Name)
	}
}

// records keeps a failed load from surfacing as a typed nil slice.
func records[T any](out []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return out, nil
}

func count(recs any) int {
	if recs == nil {
		return 0
	}
	return reflect.ValueOf(recs).Len()
}

// LoadRows loads the dataset's raw rows, checking its required columns.
func (d Dataset) LoadRows(ctx context.Context, l *csvload.Loader) ([]csvload.Row, error) {
	return csvload.LoadRows(ctx, l, d.Path, d.RequiredColumns...)
}

// Result is the outcome of loading one dataset.
type Result struct {
	Dataset Dataset
	Records any
	Count   int
	Err     error
}

// LoadAll loads the datasets concurrently, at most limit at a time
// (no limit when limit <= 0). A failing dataset does not affect the others;
// results keep the order of ds.
func LoadAll(ctx context.Context, l *csvload.Loader, ds []Dataset, limit int) []Result {
	results := make([]Result, len(ds))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, d := range ds {
		i, d := i, d
		g.Go(func() error {
			recs, err := d.Load(ctx, l)
			results[i] = Result{Dataset: d, Records: recs, Count: count(recs), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
