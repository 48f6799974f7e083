// Package datasets defines the chart datasets and the transforms that turn
// their CSV rows into chart records.
package datasets

import "time"

// ScatterPoint is one television model on the scatter chart.
type ScatterPoint struct {
	Brand             string  `json:"brand"`
	ScreenType        string  `json:"screenType"`
	ScreenSize        float64 `json:"screenSize"`
	EnergyConsumption float64 `json:"energyConsumption"`
	StarRating        float64 `json:"starRating"`
}

// ScreenTypeEnergy is the mean energy consumption of one screen technology.
// The donut and bar charts both use it.
type ScreenTypeEnergy struct {
	ScreenType        string  `json:"screenType"`
	EnergyConsumption float64 `json:"energyConsumption"`
}

// PricePoint is the average spot price for one year.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Column names used by the source files.
const (
	ColBrand          = "brand"
	ColScreenTech     = "screen_tech"
	ColScreenSize     = "screensize"
	ColEnergyConsumpt = "energy_consumpt"
	ColStar2          = "star2"

	ColScreenTechTitle = "Screen_Tech"
	ColMeanEnergy      = "Mean(Labelled energy consumption (kWh/year))"

	ColYear         = "Year"
	ColAveragePrice = "Average Price (notTas-Snowy)"
)
