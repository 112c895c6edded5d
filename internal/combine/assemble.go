package combine

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/model"
)

const (
	prodID      = "-//Combcal//NONSGML//EN"
	icalVersion = "2.0"
)

// Assemble builds the combined calendar and serializes it to the ICS
// wire format. Timezone definitions collected from the sources are
// copied verbatim (first definition per TZID wins); timezones still
// referenced by events but not defined anywhere get a synthesized
// definition. `today` anchors offset sampling for the synthesized
// blocks so identical inputs serialize identically.
func Assemble(name string, events []model.Event, tzdefs []*ical.VTimezone, today time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion(icalVersion)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	defined := make(map[string]bool)
	for _, tz := range tzdefs {
		id := timezoneID(tz)
		if id == "" || defined[id] {
			continue
		}
		defined[id] = true
		cal.Components = append(cal.Components, tz)
	}

	for _, id := range missingTZIDs(events, defined) {
		if tz := synthesizeTimezone(id, today); tz != nil {
			cal.Components = append(cal.Components, tz)
		}
	}

	for i := range events {
		events[i].AppendToCalendar(cal)
	}

	return cal.Serialize()
}

func timezoneID(tz *ical.VTimezone) string {
	if p := tz.GetProperty(ical.ComponentProperty("TZID")); p != nil {
		return p.Value
	}
	return ""
}

// missingTZIDs returns, sorted for deterministic output, the timezone
// identifiers referenced by event timing fields but not yet defined.
func missingTZIDs(events []model.Event, defined map[string]bool) []string {
	missing := make(map[string]bool)
	for i := range events {
		for _, id := range events[i].ReferencedTZIDs() {
			if !defined[id] {
				missing[id] = true
			}
		}
	}

	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// synthesizeTimezone builds a minimal VTIMEZONE for an IANA zone name:
// a STANDARD block, plus a DAYLIGHT block when the zone observes DST in
// the sampled year. Unresolvable identifiers are skipped; the events
// referencing them keep their TZID parameters regardless.
func synthesizeTimezone(id string, today time.Time) *ical.VTimezone {
	loc, err := time.LoadLocation(id)
	if err != nil {
		log.WithField("tzid", id).WithError(err).Warn("cannot synthesize unknown timezone")
		return nil
	}

	year := today.Year()
	_, janOff := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, julOff := time.Date(year, time.July, 1, 12, 0, 0, 0, loc).Zone()

	stdOff, dstOff := janOff, julOff
	if dstOff < stdOff {
		stdOff, dstOff = dstOff, stdOff
	}

	tz := &ical.VTimezone{}
	tz.AddProperty(ical.ComponentProperty("TZID"), id)

	std := &ical.Standard{}
	std.AddProperty(ical.ComponentPropertyDtStart, "19700101T000000")
	std.AddProperty(ical.ComponentProperty("TZOFFSETFROM"), formatUTCOffset(dstOff))
	std.AddProperty(ical.ComponentProperty("TZOFFSETTO"), formatUTCOffset(stdOff))
	tz.Components = append(tz.Components, std)

	if dstOff != stdOff {
		dst := &ical.Daylight{}
		dst.AddProperty(ical.ComponentPropertyDtStart, "19700101T000000")
		dst.AddProperty(ical.ComponentProperty("TZOFFSETFROM"), formatUTCOffset(stdOff))
		dst.AddProperty(ical.ComponentProperty("TZOFFSETTO"), formatUTCOffset(dstOff))
		tz.Components = append(tz.Components, dst)
	}

	return tz
}

// formatUTCOffset renders a zone offset in seconds as ±HHMM.
func formatUTCOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d%02d", sign, seconds/3600, (seconds%3600)/60)
}
