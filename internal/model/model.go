package model

import (
	"time"

	ical "github.com/arran4/golang-ical"
)

// Source describes one configured calendar feed together with the
// shaping rules applied to its events.
type Source struct {
	// ID is the unique source identifier. It is required; a source
	// without an ID is a fatal configuration error.
	ID string
	// URL is the ICS endpoint the feed is fetched from.
	URL string

	// Duration, in minutes, overrides the end/duration of every
	// date-time event from this source when set.
	Duration *int
	// PadStartMinutes shifts date-time starts earlier by the given
	// number of minutes, extending the duration accordingly.
	PadStartMinutes *int
	// Prefix is prepended to every event summary as "<Prefix>: ".
	Prefix string
	// MakeUnique forces the event identifier to be rehashed together
	// with the source ID, so identical feeds configured twice do not
	// collide.
	MakeUnique bool
	// Dedup stages this source's events into the shared
	// last-write-wins map instead of appending them directly.
	Dedup bool
}

// Event is a single VEVENT with every property the pipeline inspects
// lifted into a typed field. Properties the pipeline only copies ride
// along in Extra untouched.
type Event struct {
	SourceID string

	UID         string
	Summary     string
	Description string
	Organizer   string
	Sequence    string
	// RelatedTo is the cross-reference value some providers attach to
	// mark events as fragments of one logical recurring series.
	RelatedTo string

	Start        *DateTime
	End          *DateTime
	Duration     *time.Duration
	RecurrenceID *DateTime

	RRule   string
	RDates  []DateTime
	ExDates []DateTime

	// Extra holds all properties the pipeline does not interpret,
	// in their original order and with their original parameters.
	Extra []ical.IANAProperty
}
