package model

import "strings"

// Location is a resolved place. Name is the display-formatted
// "City, Region, Country" string and is the identity of the location:
// two locations are the same iff their names match exactly.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FormatLocationName builds the canonical display name from geocoder
// fields, skipping empty parts.
func FormatLocationName(name, admin1, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name, admin1, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
