package datasets

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

func newTestLoader(root string) *csvload.Loader {
	return csvload.New(
		csvload.NewFileFetcher(root),
		csvload.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestGetScatterPlotData(t *testing.T) {
	l := newTestLoader("testdata")

	points, err := GetScatterPlotData(context.Background(), l, "Ex5/Ex5_TV_energy.csv")
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, ScatterPoint{
		Brand:             "SAMSUNG",
		ScreenType:        "LED",
		ScreenSize:        55,
		EnergyConsumption: 206,
		StarRating:        5,
	}, points[0])
	assert.Equal(t, "HISENSE, INC", points[3].Brand)
	assert.Equal(t, 95.5, points[3].EnergyConsumption)
}

func TestGetDonutAndBarChartData(t *testing.T) {
	l := newTestLoader("testdata")
	ctx := context.Background()

	donut, err := GetDonutChartData(ctx, l, "Ex5/Ex5_TV_energy_Allsizes_byScreenType.csv")
	require.NoError(t, err)
	assert.Equal(t, []ScreenTypeEnergy{
		{ScreenType: "LCD", EnergyConsumption: 182.5},
		{ScreenType: "LED", EnergyConsumption: 208.4},
		{ScreenType: "OLED", EnergyConsumption: 321.6},
	}, donut)

	bar, err := GetBarChartData(ctx, l, "Ex5/Ex5_TV_energy_55inchtv_byScreenType.csv")
	require.NoError(t, err)
	assert.Equal(t, []ScreenTypeEnergy{
		{ScreenType: "LED", EnergyConsumption: 221.3},
		{ScreenType: "LCD", EnergyConsumption: 270.1},
		{ScreenType: "OLED", EnergyConsumption: 294.8},
	}, bar)
}

func TestGetBarChartData_StableForEqualValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar.csv"), []byte(
		"Screen_Tech,Mean(Labelled energy consumption (kWh/year))\nB,2\nA,1\nC,2\n"), 0o644))

	bar, err := GetBarChartData(context.Background(), newTestLoader(dir), "bar.csv")
	require.NoError(t, err)
	require.Len(t, bar, 3)
	assert.Equal(t, "A", bar[0].ScreenType)
	assert.Equal(t, "B", bar[1].ScreenType)
	assert.Equal(t, "C", bar[2].ScreenType)
}

func TestGetLineGraphData_SortedByDate(t *testing.T) {
	l := newTestLoader("testdata")

	points, err := GetLineGraphData(context.Background(), l, "Ex5/Ex5_ARE_Spot_Prices_cleaned.csv")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 91.5, points[0].Price)
	assert.Equal(t, 2020, points[1].Date.Year())
	assert.Equal(t, 50.5, points[1].Price)
	assert.Equal(t, 2021, points[2].Date.Year())
}

func TestGetScatterPlotData_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tv.csv"), []byte("brand,screen_tech\nA,LED\n"), 0o644))

	_, err := GetScatterPlotData(context.Background(), newTestLoader(dir), "tv.csv")
	var missing *csvload.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{ColScreenSize, ColEnergyConsumpt, ColStar2}, missing.Missing)
}

func TestTransforms(t *testing.T) {
	row := func(cols []string, vals ...string) csvload.Row {
		return csvload.Row{Columns: cols, Values: vals}
	}

	t.Run("price rejects non-integer year", func(t *testing.T) {
		_, ok, err := PriceTransform(row([]string{ColYear, ColAveragePrice}, "20x", "1"))
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("price keeps zero", func(t *testing.T) {
		p, ok, err := PriceTransform(row([]string{ColYear, ColAveragePrice}, "2020", "0"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, p.Price)
	})

	for _, v := range []string{"NaN", "inf", "+Inf", "-Infinity", "1e400"} {
		t.Run("screen type rejects "+v, func(t *testing.T) {
			_, ok, err := ScreenTypeTransform(row([]string{ColScreenTechTitle, ColMeanEnergy}, "LED", v))
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}

	t.Run("price rejects infinite price", func(t *testing.T) {
		_, ok, _ := PriceTransform(row([]string{ColYear, ColAveragePrice}, "2020", "Inf"))
		assert.False(t, ok)
	})

	t.Run("price accepts whole year with fraction", func(t *testing.T) {
		p, ok, err := PriceTransform(row([]string{ColYear, ColAveragePrice}, "2020.0", "1"))
		assert.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2020, p.Date.Year())
	})

	t.Run("price rejects fractional year", func(t *testing.T) {
		_, ok, _ := PriceTransform(row([]string{ColYear, ColAveragePrice}, "2020.5", "1"))
		assert.False(t, ok)
	})

	t.Run("scatter rejects empty rating", func(t *testing.T) {
		_, ok, _ := ScatterTransform(row(
			[]string{ColBrand, ColScreenTech, ColScreenSize, ColEnergyConsumpt, ColStar2},
			"A", "LED", "55", "100", ""))
		assert.False(t, ok)
	})
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(map[string]string{Line: "other/prices.csv", Bar: ""})
	require.NoError(t, err)

	line, ok := c.Lookup(Line)
	require.True(t, ok)
	assert.Equal(t, "other/prices.csv", line.Path)

	bar, ok := c.Lookup(Bar)
	require.True(t, ok)
	assert.Equal(t, "Ex5/Ex5_TV_energy_55inchtv_byScreenType.csv", bar.Path)

	_, ok = c.Lookup("pie")
	assert.False(t, ok)

	assert.Equal(t, []string{Scatter, Donut, Bar, Line}, Names())
	assert.Len(t, c.All(), 4)

	_, err = NewCatalog(map[string]string{"pie": "x.csv"})
	assert.ErrorContains(t, err, `unknown dataset "pie"`)
}

func TestNewCatalog_DoesNotMutateDefaults(t *testing.T) {
	_, err := NewCatalog(map[string]string{Scatter: "elsewhere.csv"})
	require.NoError(t, err)

	c, err := NewCatalog(nil)
	require.NoError(t, err)
	d, _ := c.Lookup(Scatter)
	assert.Equal(t, "Ex5/Ex5_TV_energy.csv", d.Path)
}

func TestLoadAll_IsolatesFailures(t *testing.T) {
	c, err := NewCatalog(map[string]string{Donut: "Ex5/missing.csv"})
	require.NoError(t, err)

	results := LoadAll(context.Background(), newTestLoader("testdata"), c.All(), 2)
	require.Len(t, results, 4)

	for _, r := range results {
		if r.Dataset.Name == Donut {
			var fetchErr *csvload.FetchError
			assert.ErrorAs(t, r.Err, &fetchErr)
			assert.Nil(t, r.Records)
			continue
		}
		assert.NoError(t, r.Err, r.Dataset.Name)
		assert.NotNil(t, r.Records)
		assert.Positive(t, r.Count)
	}

	assert.IsType(t, []ScatterPoint{}, results[0].Records)
	assert.IsType(t, []PricePoint{}, results[3].Records)
}

func TestDataset_LoadUnknown(t *testing.T) {
	_, err := Dataset{Name: "pie"}.Load(context.Background(), newTestLoader("testdata"))
	assert.Error(t, err)
}

func TestDataset_LoadRows(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	d, _ := c.Lookup(Donut)

	rows, err := d.LoadRows(context.Background(), newTestLoader("testdata"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "OLED", rows[2].Get(ColScreenTechTitle))
}
