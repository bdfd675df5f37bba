package model

import "time"

// AlertKind discriminates the two alert rules.
type AlertKind string

const (
	AlertRain AlertKind = "rain"
	AlertHeat AlertKind = "heat"
)

// AlertIntent is a decided-but-not-yet-delivered alert. Intents live only
// within one evaluation pass; they are never persisted.
type AlertIntent struct {
	Kind            AlertKind `json:"kind"`
	Location        string    `json:"location"`
	LeadTimeHours   int       `json:"lead_time_hours,omitempty"`  // rain only
	PeakTemperature float64   `json:"peak_temperature,omitempty"` // heat only
}

// Notification is a deliverable payload. Tag scopes deduplication: the
// sinks replace any prior notification sharing the same tag.
type Notification struct {
	ID        string    `json:"id"`
	Tag       string    `json:"tag"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
