package ics

import (
	"bytes"
	"errors"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/model"
)

// Result is the parsed content of one source: its events plus any
// timezone definitions, which are copied verbatim into the combined
// output.
type Result struct {
	Source    model.Source
	Events    []model.Event
	Timezones []*ical.VTimezone
}

// Parse parses a single ICS payload. A structurally invalid document is
// an error; the caller aborts the whole request on it. Individual
// events are lifted into the pipeline model without interpretation
// beyond timing-field classification.
func Parse(src model.Source, body []byte) (Result, error) {
	res := Result{Source: src}

	if len(body) == 0 {
		return res, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return res, err
	}

	for _, comp := range cal.Components {
		switch c := comp.(type) {
		case *ical.VEvent:
			res.Events = append(res.Events, model.EventFromIcal(src.ID, c))
		case *ical.VTimezone:
			res.Timezones = append(res.Timezones, c)
		}
	}

	log.WithFields(log.Fields{
		"source":    src.ID,
		"events":    len(res.Events),
		"timezones": len(res.Timezones),
	}).Debug("parsed calendar source")

	return res, nil
}
