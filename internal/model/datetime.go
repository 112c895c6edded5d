package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeKind classifies an iCalendar date/time value. The kind is
// established once when the value is parsed and checked by tag
// afterwards, instead of re-inspecting the raw text at every step.
type TimeKind int

const (
	// KindInvalid marks a value that could not be classified as either
	// a date or a date-time. Events with an invalid start are dropped.
	KindInvalid TimeKind = iota
	// KindDate is a date-only value (VALUE=DATE), e.g. 20250101.
	KindDate
	// KindNaive is a floating local date-time without timezone
	// information, e.g. 20250101T090000.
	KindNaive
	// KindZoned is a date-time that carries timezone information,
	// either a trailing Z or a TZID parameter.
	KindZoned
)

const (
	layoutDate  = "20060102"
	layoutLocal = "20060102T150405"
	layoutUTC   = "20060102T150405Z"
)

// DateTime is a single DTSTART/DTEND/RDATE/EXDATE/RECURRENCE-ID value
// together with its classification and, for TZID-parameterized values,
// the timezone identifier it was expressed in.
type DateTime struct {
	Kind TimeKind
	Time time.Time
	TZID string
}

// ParseDateTime classifies and parses one raw iCalendar time value.
// isDate forces date-only interpretation (VALUE=DATE parameter).
// A TZID that is not a resolvable IANA name (Windows zone names like
// "W. Europe Standard Time" are common in Outlook feeds) keeps its
// wall-clock value and the TZID, so both re-emit verbatim.
func ParseDateTime(value, tzid string, isDate bool) (DateTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DateTime{}, errors.New("empty time value")
	}

	if isDate || !strings.Contains(value, "T") {
		t, err := time.ParseInLocation(layoutDate, value, time.UTC)
		if err != nil {
			return DateTime{}, err
		}
		return DateTime{Kind: KindDate, Time: t}, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse(layoutUTC, value)
		if err != nil {
			return DateTime{}, err
		}
		return DateTime{Kind: KindZoned, Time: t}, nil
	}

	if tzid != "" {
		loc, err := time.LoadLocation(tzid)
		if err != nil {
			loc = time.UTC
		}
		t, perr := time.ParseInLocation(layoutLocal, value, loc)
		if perr != nil {
			return DateTime{}, perr
		}
		return DateTime{Kind: KindZoned, Time: t, TZID: tzid}, nil
	}

	t, err := time.ParseInLocation(layoutLocal, value, time.UTC)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Kind: KindNaive, Time: t}, nil
}

// IsDateTime reports whether the value is a date-time (naive or zoned)
// as opposed to a date-only or invalid value.
func (d DateTime) IsDateTime() bool {
	return d.Kind == KindNaive || d.Kind == KindZoned
}

// Date returns the calendar day of the value as midnight UTC, so that
// days from differently-zoned values compare consistently.
func (d DateTime) Date() time.Time {
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// ToUTC converts a zoned value to absolute UTC time, dropping its TZID.
// Date-only and floating values pass through unchanged, as does a
// zoned value whose TZID cannot be resolved: its absolute time is not
// knowable, so the wall clock and TZID stay as parsed.
func (d DateTime) ToUTC() DateTime {
	if d.Kind != KindZoned {
		return d
	}
	if d.TZID != "" {
		if _, err := time.LoadLocation(d.TZID); err != nil {
			return d
		}
	}
	return DateTime{Kind: KindZoned, Time: d.Time.In(time.UTC)}
}

// Format renders the value back into its wire representation. The
// second return is the TZID parameter value, empty when none applies;
// date-only values are signalled by the third return.
func (d DateTime) Format() (value string, tzid string, isDate bool) {
	switch d.Kind {
	case KindDate:
		return d.Time.Format(layoutDate), "", true
	case KindZoned:
		if d.TZID != "" {
			return d.Time.Format(layoutLocal), d.TZID, false
		}
		return d.Time.In(time.UTC).Format(layoutUTC), "", false
	default:
		return d.Time.Format(layoutLocal), "", false
	}
}

// ParseDuration parses an iCalendar (RFC 5545 / ISO 8601 subset)
// duration value such as PT30M, P1D, -PT5M or P1W.
func ParseDuration(v string) (time.Duration, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'T':
			inTime = true
		default:
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q", v)
			}
			num = ""
			switch {
			case r == 'W' && !inTime:
				total += time.Duration(n) * 7 * 24 * time.Hour
			case r == 'D' && !inTime:
				total += time.Duration(n) * 24 * time.Hour
			case r == 'H' && inTime:
				total += time.Duration(n) * time.Hour
			case r == 'M' && inTime:
				total += time.Duration(n) * time.Minute
			case r == 'S' && inTime:
				total += time.Duration(n) * time.Second
			default:
				return 0, fmt.Errorf("invalid duration %q", v)
			}
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if neg {
		total = -total
	}
	return total, nil
}

// FormatDuration renders a duration in the iCalendar wire form.
// Whole-day durations come out as PnD (a synthesized all-day default
// serializes as P1D rather than PT24H).
func FormatDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if d == 0 {
		if days == 0 {
			b.WriteString("T0S")
		}
		return b.String()
	}

	b.WriteByte('T')
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if sec > 0 {
		fmt.Fprintf(&b, "%dS", sec)
	}
	return b.String()
}
