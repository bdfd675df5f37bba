package model

import (
	"time"

	"meteoalerte/internal/config"
)

// HourTimeLayout is the local-time layout used by the Open-Meteo hourly
// and current time fields.
const HourTimeLayout = "2006-01-02T15:04"

// WeatherSnapshot holds the current conditions of the most recent
// successful fetch. Replaced wholesale on success, cleared on failure.
type WeatherSnapshot struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	WeatherCode int       `json:"weather_code"`
	WindSpeed   float64   `json:"wind_speed"`
	Humidity    float64   `json:"humidity"`
	Pictogram   Pictogram `json:"pictogram"`
}

// HourlySeries is the parsed hourly data for the current local day.
// The four slices share the same length and index alignment.
type HourlySeries struct {
	Times         []time.Time
	Temperatures  []float64
	WeatherCodes  []int
	PrecipChances []*int
}

// Len returns the number of aligned samples.
func (s HourlySeries) Len() int { return len(s.Times) }

// SnapshotFromCurrent maps the upstream current block into a snapshot.
func SnapshotFromCurrent(c Current) WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: c.Temperature2m,
		FeelsLike:   c.ApparentTemperature,
		WeatherCode: c.WeatherCode,
		WindSpeed:   c.WindSpeed10m,
		Humidity:    c.RelativeHumidity2m,
		Pictogram:   PictogramForCode(c.WeatherCode),
	}
}

// SeriesFromHourly parses the upstream parallel arrays into an aligned
// series. The upstream contract promises equal lengths; if the required
// arrays disagree the series is truncated to the shortest one so that
// index alignment still holds. Precipitation probability is the one
// optional array: missing entries become nil ("no data") rather than
// costing the rest of the series. Misalignment is logged, not surfaced.
// Unparseable timestamps end the series at that index.
func SeriesFromHourly(h Hourly) HourlySeries {
	n := len(h.Time)
	if len(h.Temperature2m) < n {
		n = len(h.Temperature2m)
	}
	if len(h.WeatherCode) < n {
		n = len(h.WeatherCode)
	}
	if n != len(h.Time) || len(h.PrecipitationProbability) != n {
		config.GetLogger().Warnw("hourly arrays misaligned",
			"time", len(h.Time),
			"temperature", len(h.Temperature2m),
			"weather_code", len(h.WeatherCode),
			"precipitation", len(h.PrecipitationProbability))
	}

	series := HourlySeries{
		Times:         make([]time.Time, 0, n),
		Temperatures:  make([]float64, 0, n),
		WeatherCodes:  make([]int, 0, n),
		PrecipChances: make([]*int, 0, n),
	}
	for i := 0; i < n; i++ {
		ts, err := time.Parse(HourTimeLayout, h.Time[i])
		if err != nil {
			break
		}
		series.Times = append(series.Times, ts)
		series.Temperatures = append(series.Temperatures, h.Temperature2m[i])
		series.WeatherCodes = append(series.WeatherCodes, h.WeatherCode[i])
		var precip *int
		if i < len(h.PrecipitationProbability) {
			precip = h.PrecipitationProbability[i]
		}
		series.PrecipChances = append(series.PrecipChances, precip)
	}
	return series
}
