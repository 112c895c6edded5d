package combine

import (
	"strings"
	"time"

	"github.com/combcal/combcal/internal/model"
)

// Synthesized defaults for events that carry neither an end nor a
// duration.
const (
	defaultTimedDuration  = 5 * time.Minute
	defaultAllDayDuration = 24 * time.Hour
)

// Transform applies the per-source shaping rules to one event, in
// order: duration/end resolution, start padding, summary prefixing,
// identifier canonicalization, organizer removal, description cleanup
// and timestamp normalization. The boolean is false when the event's
// start cannot be classified; such events are dropped, never emitted
// malformed.
func Transform(src model.Source, ev model.Event) (model.Event, bool) {
	ev, ok := resolveEnd(src, ev)
	if !ok {
		return ev, false
	}
	ev = padStart(src, ev)
	if src.Prefix != "" {
		ev.Summary = src.Prefix + ": " + ev.Summary
	}
	ev.UID = CanonicalUID(src, ev.UID)
	ev.Organizer = ""
	if ev.Description != "" {
		ev.Description = stripBlankLines(ev.Description)
	}
	return normalizeTimes(ev), true
}

// resolveEnd guarantees every surviving event has a resolvable end. A
// source-level fixed duration overrides end/duration for date-time
// starts; otherwise events with neither get 5 minutes (date-time) or
// one calendar day (date-only).
func resolveEnd(src model.Source, ev model.Event) (model.Event, bool) {
	if ev.Start == nil || ev.Start.Kind == model.KindInvalid {
		return ev, false
	}

	if src.Duration != nil && ev.Start.IsDateTime() {
		d := time.Duration(*src.Duration) * time.Minute
		ev.Duration = &d
		ev.End = nil
		return ev, true
	}

	if ev.End == nil && ev.Duration == nil {
		var d time.Duration
		switch {
		case ev.Start.IsDateTime():
			d = defaultTimedDuration
		case ev.Start.Kind == model.KindDate:
			d = defaultAllDayDuration
		default:
			return ev, false
		}
		ev.Duration = &d
	}

	return ev, true
}

// padStart shifts a date-time start earlier by the source's pad minutes
// and extends the duration by the same amount. With an explicit end the
// shift alone extends the effective duration. Date-only events are not
// padded.
func padStart(src model.Source, ev model.Event) model.Event {
	if src.PadStartMinutes == nil || ev.Start == nil || !ev.Start.IsDateTime() {
		return ev
	}
	pad := time.Duration(*src.PadStartMinutes) * time.Minute

	start := *ev.Start
	start.Time = start.Time.Add(-pad)
	ev.Start = &start

	if ev.Duration != nil {
		d := *ev.Duration + pad
		ev.Duration = &d
	}
	return ev
}

// stripBlankLines removes blank and whitespace-only lines from a
// description and trims the result. Descriptions parsed from the wire
// carry the escaped `\n` sequence rather than real newlines, so both
// separators are handled.
func stripBlankLines(s string) string {
	sep := "\n"
	if strings.Contains(s, `\n`) {
		sep = `\n`
	}

	kept := make([]string, 0)
	for _, line := range strings.Split(s, sep) {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, sep))
}

// normalizeTimes converts zoned single-valued timing fields to UTC.
// Date-only and floating values pass through unchanged, as do the
// already-flattened RDATE/EXDATE lists, which keep their timezone
// representation.
func normalizeTimes(ev model.Event) model.Event {
	for _, d := range []**model.DateTime{&ev.Start, &ev.End, &ev.RecurrenceID} {
		if *d == nil {
			continue
		}
		utc := (*d).ToUTC()
		*d = &utc
	}
	return ev
}
