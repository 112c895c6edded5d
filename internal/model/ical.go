package model

import (
	"strings"

	ical "github.com/arran4/golang-ical"
)

// EventFromIcal lifts a parsed VEVENT into the pipeline's event model.
// Timing values are classified once here; an unparseable DTSTART is
// recorded as KindInvalid so the transformer can drop the event, while
// an unparseable DTEND or RECURRENCE-ID is treated as absent.
func EventFromIcal(sourceID string, ve *ical.VEvent) Event {
	e := Event{SourceID: sourceID}

	for _, p := range ve.Properties {
		switch strings.ToUpper(p.IANAToken) {
		case "UID":
			e.UID = p.Value
		case "SUMMARY":
			e.Summary = p.Value
		case "DESCRIPTION":
			e.Description = p.Value
		case "ORGANIZER":
			e.Organizer = p.Value
		case "SEQUENCE":
			e.Sequence = strings.TrimSpace(p.Value)
		case "RELATED-TO":
			e.RelatedTo = p.Value
		case "RRULE":
			e.RRule = p.Value
		case "DURATION":
			if d, err := ParseDuration(p.Value); err == nil {
				e.Duration = &d
			}
		case "DTSTART":
			dt := parseTimeProp(p)
			e.Start = &dt
		case "DTEND":
			if dt := parseTimeProp(p); dt.Kind != KindInvalid {
				e.End = &dt
			}
		case "RECURRENCE-ID":
			if dt := parseTimeProp(p); dt.Kind != KindInvalid {
				e.RecurrenceID = &dt
			}
		case "RDATE":
			if vals, ok := parseTimeList(p); ok {
				e.RDates = append(e.RDates, vals...)
			} else {
				e.Extra = append(e.Extra, p)
			}
		case "EXDATE":
			if vals, ok := parseTimeList(p); ok {
				e.ExDates = append(e.ExDates, vals...)
			} else {
				e.Extra = append(e.Extra, p)
			}
		default:
			e.Extra = append(e.Extra, p)
		}
	}

	return e
}

// AppendToCalendar writes the event into cal as a VEVENT. Interpreted
// fields are emitted in a fixed order followed by the pass-through
// properties in their original order, so identical inputs serialize
// identically.
func (e *Event) AppendToCalendar(cal *ical.Calendar) {
	ve := cal.AddEvent(e.UID)

	if e.Summary != "" {
		ve.SetProperty(ical.ComponentPropertySummary, e.Summary)
	}
	if e.Description != "" {
		ve.SetProperty(ical.ComponentPropertyDescription, e.Description)
	}
	if e.Organizer != "" {
		ve.SetProperty(ical.ComponentProperty("ORGANIZER"), e.Organizer)
	}
	setTimeProp(ve, ical.ComponentPropertyDtStart, e.Start)
	setTimeProp(ve, ical.ComponentPropertyDtEnd, e.End)
	if e.Duration != nil {
		ve.SetProperty(ical.ComponentProperty("DURATION"), FormatDuration(*e.Duration))
	}
	if e.RRule != "" {
		ve.SetProperty(ical.ComponentPropertyRrule, e.RRule)
	}
	for _, d := range e.RDates {
		addTimeProp(ve, ical.ComponentProperty("RDATE"), d)
	}
	for _, d := range e.ExDates {
		addTimeProp(ve, ical.ComponentPropertyExdate, d)
	}
	setTimeProp(ve, ical.ComponentProperty("RECURRENCE-ID"), e.RecurrenceID)
	if e.Sequence != "" {
		ve.SetProperty(ical.ComponentPropertySequence, e.Sequence)
	}
	if e.RelatedTo != "" {
		ve.SetProperty(ical.ComponentProperty("RELATED-TO"), e.RelatedTo)
	}

	ve.Properties = append(ve.Properties, e.Extra...)
}

// ReferencedTZIDs returns the timezone identifiers still referenced by
// the event's timing fields after normalization.
func (e *Event) ReferencedTZIDs() []string {
	var ids []string
	add := func(tzid string) {
		if tzid != "" {
			ids = append(ids, tzid)
		}
	}
	for _, d := range []*DateTime{e.Start, e.End, e.RecurrenceID} {
		if d != nil {
			add(d.TZID)
		}
	}
	for _, d := range e.RDates {
		add(d.TZID)
	}
	for _, d := range e.ExDates {
		add(d.TZID)
	}
	return ids
}

func parseTimeProp(p ical.IANAProperty) DateTime {
	dt, err := ParseDateTime(p.Value, propTZID(p), propIsDate(p))
	if err != nil {
		return DateTime{Kind: KindInvalid}
	}
	return dt
}

// parseTimeList flattens a multi-valued RDATE/EXDATE property into its
// individual date/date-time values. The second return is false when
// any value does not parse (e.g. PERIOD-form RDATEs); the caller then
// carries the whole property through untouched instead of losing
// occurrences.
func parseTimeList(p ical.IANAProperty) ([]DateTime, bool) {
	tzid := propTZID(p)
	isDate := propIsDate(p)

	var out []DateTime
	for _, part := range strings.Split(p.Value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dt, err := ParseDateTime(part, tzid, isDate)
		if err != nil {
			return nil, false
		}
		out = append(out, dt)
	}
	return out, true
}

func propTZID(p ical.IANAProperty) string {
	if p.ICalParameters == nil {
		return ""
	}
	if vs, ok := p.ICalParameters["TZID"]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func propIsDate(p ical.IANAProperty) bool {
	if p.ICalParameters == nil {
		return false
	}
	vs, ok := p.ICalParameters["VALUE"]
	return ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE")
}

func setTimeProp(ve *ical.VEvent, name ical.ComponentProperty, d *DateTime) {
	if d == nil {
		return
	}
	value, tzid, isDate := d.Format()
	ve.SetProperty(name, value, timeParams(tzid, isDate)...)
}

func addTimeProp(ve *ical.VEvent, name ical.ComponentProperty, d DateTime) {
	value, tzid, isDate := d.Format()
	ve.AddProperty(name, value, timeParams(tzid, isDate)...)
}

func timeParams(tzid string, isDate bool) []ical.PropertyParameter {
	var params []ical.PropertyParameter
	if isDate {
		params = append(params, &ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
	}
	if tzid != "" {
		params = append(params, &ical.KeyValues{Key: "TZID", Value: []string{tzid}})
	}
	return params
}
