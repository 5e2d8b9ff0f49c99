package model

import "time"

// Event is the typed view of a single VEVENT as emitted on stdout.
//
// Every field is optional. A nil pointer means the property was absent (or,
// for Start/End, could not be parsed) and serializes as JSON null; it is never
// collapsed into an empty string or a zero time.
type Event struct {
	Title       *string    `json:"title"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}
