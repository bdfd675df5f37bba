package forecast

import (
	"math"
	"time"

	"meteoalerte/internal/model"
)

// Evaluate scans a window and produces zero, one or two alert intents.
//
// Rain rule: the earliest slice whose weather code is in rainCodes emits
// one rain intent with the lead time in whole hours (never below 1).
// Heat rule: the earliest slice whose temperature exceeds thresholdTemp
// emits one heat intent carrying that slice's rounded temperature.
// The two rules are independent. Evaluation keeps no memory: a condition
// still present on the next fetch is reported again.
func Evaluate(window Window, now time.Time, location string, thresholdTemp float64, rainCodes map[int]struct{}) []model.AlertIntent {
	var intents []model.AlertIntent

	for _, slice := range window {
		if _, rainy := rainCodes[slice.WeatherCode]; !rainy {
			continue
		}
		lead := int(math.Round(slice.Time.Sub(now).Hours()))
		if lead < 1 {
			lead = 1
		}
		intents = append(intents, model.AlertIntent{
			Kind:          model.AlertRain,
			Location:      location,
			LeadTimeHours: lead,
		})
		break
	}

	for _, slice := range window {
		if slice.Temperature <= thresholdTemp {
			continue
		}
		intents = append(intents, model.AlertIntent{
			Kind:            model.AlertHeat,
			Location:        location,
			PeakTemperature: math.Round(slice.Temperature),
		})
		break
	}

	return intents
}
