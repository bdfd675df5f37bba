package model

// Pictogram is the closed set of display categories a WMO weather code
// maps to.
type Pictogram string

const (
	PictogramClear        Pictogram = "clear"
	PictogramPartlyCloudy Pictogram = "partly_cloudy"
	PictogramOvercast     Pictogram = "overcast"
	PictogramFog          Pictogram = "fog"
	PictogramDrizzle      Pictogram = "drizzle"
	PictogramRain         Pictogram = "rain"
	PictogramSnow         Pictogram = "snow"
	PictogramShowers      Pictogram = "showers"
	PictogramThunderstorm Pictogram = "thunderstorm"
)

// pictogramByCode maps WMO weather codes to display categories.
var pictogramByCode = map[int]Pictogram{
	0:  PictogramClear,
	1:  PictogramClear,
	2:  PictogramPartlyCloudy,
	3:  PictogramOvercast,
	45: PictogramFog,
	48: PictogramFog,
	51: PictogramDrizzle,
	53: PictogramDrizzle,
	55: PictogramDrizzle,
	56: PictogramDrizzle,
	57: PictogramDrizzle,
	61: PictogramRain,
	63: PictogramRain,
	65: PictogramRain,
	66: PictogramRain,
	67: PictogramRain,
	71: PictogramSnow,
	73: PictogramSnow,
	75: PictogramSnow,
	77: PictogramSnow,
	80: PictogramShowers,
	81: PictogramShowers,
	82: PictogramShowers,
	85: PictogramSnow,
	86: PictogramSnow,
	95: PictogramThunderstorm,
	96: PictogramThunderstorm,
	99: PictogramThunderstorm,
}

// PictogramForCode returns the display category for a weather code.
// Codes outside the map fall back to partly cloudy rather than erroring.
func PictogramForCode(code int) Pictogram {
	if p, ok := pictogramByCode[code]; ok {
		return p
	}
	return PictogramPartlyCloudy
}

// DefaultRainCodes returns the WMO codes treated as rain-bearing for
// alert purposes: drizzle, rain, freezing rain, showers and thunderstorms.
func DefaultRainCodes() map[int]struct{} {
	codes := map[int]struct{}{}
	for _, c := range []int{51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82, 95, 96, 99} {
		codes[c] = struct{}{}
	}
	return codes
}
