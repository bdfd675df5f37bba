package model

// GeocodingResponse is the Open-Meteo geocoding API payload. Only the
// best match is requested (count=1), so Results holds at most one entry.
type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

type GeocodingResult struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ForecastResponse is the Open-Meteo forecast API payload for one day of
// hourly data plus the current conditions block.
type ForecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Current   Current `json:"current"`
	Hourly    Hourly  `json:"hourly"`
}

type Current struct {
	Time                string  `json:"time"`
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
}

// Hourly carries parallel arrays indexed by hour. PrecipitationProbability
// entries may be null in the source data; a nil pointer means "no data",
// which is not the same thing as 0%.
type Hourly struct {
	Time                     []string  `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	WeatherCode              []int     `json:"weather_code"`
	PrecipitationProbability []*int    `json:"precipitation_probability"`
}
