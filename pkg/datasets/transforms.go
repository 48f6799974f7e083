package datasets

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

// parseNumber parses a finite float, rejecting empty input, NaN and ±Inf.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYear accepts an integer year, or a whole number written with a
// fractional part such as "2020.0".
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if year, err := strconv.Atoi(s); err == nil {
		return year, true
	}
	v, ok := parseNumber(s)
	if !ok || v != math.Trunc(v) || math.Abs(v) > 1e6 {
		return 0, false
	}
	return int(v), true
}

// ScatterTransform maps a TV model row. Rows with a non-numeric size,
// consumption or rating are discarded.
func ScatterTransform(row csvload.Row) (ScatterPoint, bool, error) {
	size, ok := parseNumber(row.Get(ColScreenSize))
	if !ok {
		return ScatterPoint{}, false, nil
	}
	energy, ok := parseNumber(row.Get(ColEnergyConsumpt))
	if !ok {
		return ScatterPoint{}, false, nil
	}
	stars, ok := parseNumber(row.Get(ColStar2))
	if !ok {
		return ScatterPoint{}, false, nil
	}

	return ScatterPoint{
		Brand:             row.Get(ColBrand),
		ScreenType:        row.Get(ColScreenTech),
		ScreenSize:        size,
		EnergyConsumption: energy,
		StarRating:        stars,
	}, true, nil
}

// ScreenTypeTransform maps a per-screen-technology mean row.
func ScreenTypeTransform(row csvload.Row) (ScreenTypeEnergy, bool, error) {
	energy, ok := parseNumber(row.Get(ColMeanEnergy))
	if !ok {
		return ScreenTypeEnergy{}, false, nil
	}
	return ScreenTypeEnergy{
		ScreenType:        row.Get(ColScreenTechTitle),
		EnergyConsumption: energy,
	}, true, nil
}

// PriceTransform maps a yearly spot price row to January 1 of that year.
// Rows whose year or price do not parse are discarded.
func PriceTransform(row csvload.Row) (PricePoint, bool, error) {
	year, ok := parseYear(row.Get(ColYear))
	if !ok {
		return PricePoint{}, false, nil
	}
	price, ok := parseNumber(row.Get(ColAveragePrice))
	if !ok {
		return PricePoint{}, false, nil
	}
	return PricePoint{
		Date:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Price: price,
	}, true, nil
}
