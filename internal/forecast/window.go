// Package forecast turns raw hourly weather data into a forward-looking
// window and evaluates it against the alert rules.
package forecast

import (
	"time"

	"meteoalerte/internal/model"
)

// Slice is one hourly forecast data point. PrecipChance is nil when the
// source reports no probability for that hour; nil means "no data" and is
// never collapsed to zero.
type Slice struct {
	Time         time.Time       `json:"time"`
	Temperature  float64         `json:"temperature"`
	WeatherCode  int             `json:"weather_code"`
	Pictogram    model.Pictogram `json:"pictogram"`
	PrecipChance *int            `json:"precip_chance"`
}

// Window is an ordered sequence of up to N forward-looking slices.
type Window []Slice

// ExtractWindow returns the next count samples of the series whose
// timestamps are strictly after now. If fewer qualify, fewer are
// returned; the result is never padded. Pure function of its inputs.
func ExtractWindow(series model.HourlySeries, now time.Time, count int) Window {
	window := make(Window, 0, count)
	for i := 0; i < series.Len() && len(window) < count; i++ {
		if !series.Times[i].After(now) {
			continue
		}
		window = append(window, Slice{
			Time:         series.Times[i],
			Temperature:  series.Temperatures[i],
			WeatherCode:  series.WeatherCodes[i],
			Pictogram:    model.PictogramForCode(series.WeatherCodes[i]),
			PrecipChance: series.PrecipChances[i],
		})
	}
	return window
}
