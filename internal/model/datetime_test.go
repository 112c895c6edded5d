package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		tzid     string
		isDate   bool
		wantKind TimeKind
		wantTime time.Time
	}{
		{
			name:     "date only value",
			value:    "20250101",
			wantKind: KindDate,
			wantTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "explicit VALUE=DATE",
			value:    "20250101",
			isDate:   true,
			wantKind: KindDate,
			wantTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "utc date-time",
			value:    "20250101T090000Z",
			wantKind: KindZoned,
			wantTime: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "floating date-time",
			value:    "20250101T090000",
			wantKind: KindNaive,
			wantTime: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.value, tt.tzid, tt.isDate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.True(t, got.Time.Equal(tt.wantTime), "got %v, want %v", got.Time, tt.wantTime)
		})
	}
}

func TestParseDateTimeWithTZID(t *testing.T) {
	got, err := ParseDateTime("20250601T120000", "Europe/Warsaw", false)
	require.NoError(t, err)
	assert.Equal(t, KindZoned, got.Kind)
	assert.Equal(t, "Europe/Warsaw", got.TZID)
	// CEST in June: 12:00 local is 10:00 UTC.
	assert.True(t, got.Time.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
}

func TestParseDateTimeNonIANATZIDKeepsWallClockAndTZID(t *testing.T) {
	// Outlook feeds use Windows zone names that LoadLocation cannot
	// resolve. The value must stay zoned with its TZID intact.
	got, err := ParseDateTime("20250611T090000", "W. Europe Standard Time", false)
	require.NoError(t, err)
	assert.Equal(t, KindZoned, got.Kind)
	assert.Equal(t, "W. Europe Standard Time", got.TZID)

	value, tzid, isDate := got.Format()
	assert.Equal(t, "20250611T090000", value)
	assert.Equal(t, "W. Europe Standard Time", tzid)
	assert.False(t, isDate)
}

func TestParseDateTimeInvalid(t *testing.T) {
	_, err := ParseDateTime("not-a-time", "", false)
	assert.Error(t, err)
	_, err = ParseDateTime("", "", false)
	assert.Error(t, err)
}

func TestToUTC(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	zoned := DateTime{Kind: KindZoned, Time: time.Date(2025, 6, 1, 12, 0, 0, 0, warsaw), TZID: "Europe/Warsaw"}
	got := zoned.ToUTC()
	assert.Empty(t, got.TZID)
	value, tzid, isDate := got.Format()
	assert.Equal(t, "20250601T100000Z", value)
	assert.Empty(t, tzid)
	assert.False(t, isDate)

	// Date-only and floating values pass through unchanged.
	date := DateTime{Kind: KindDate, Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, date, date.ToUTC())
	naive := DateTime{Kind: KindNaive, Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	assert.Equal(t, naive, naive.ToUTC())

	// A zoned value with an unresolvable TZID has no known absolute
	// time; it passes through with the TZID kept.
	windows := DateTime{Kind: KindZoned, Time: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), TZID: "W. Europe Standard Time"}
	assert.Equal(t, windows, windows.ToUTC())
}

func TestFormat(t *testing.T) {
	warsaw, _ := time.LoadLocation("Europe/Warsaw")

	value, tzid, isDate := DateTime{Kind: KindDate, Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}.Format()
	assert.Equal(t, "20250102", value)
	assert.True(t, isDate)
	assert.Empty(t, tzid)

	value, tzid, isDate = DateTime{Kind: KindZoned, Time: time.Date(2025, 6, 1, 12, 0, 0, 0, warsaw), TZID: "Europe/Warsaw"}.Format()
	assert.Equal(t, "20250601T120000", value)
	assert.Equal(t, "Europe/Warsaw", tzid)
	assert.False(t, isDate)

	value, _, _ = DateTime{Kind: KindNaive, Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}.Format()
	assert.Equal(t, "20250601T120000", value)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "PT30M", want: 30 * time.Minute},
		{in: "PT5M", want: 5 * time.Minute},
		{in: "P1D", want: 24 * time.Hour},
		{in: "P1W", want: 7 * 24 * time.Hour},
		{in: "P1DT2H30M", want: 26*time.Hour + 30*time.Minute},
		{in: "-PT15M", want: -15 * time.Minute},
		{in: "PT90S", want: 90 * time.Second},
		{in: "", wantErr: true},
		{in: "30M", wantErr: true},
		{in: "P1X", wantErr: true},
		{in: "PT5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "PT30M", FormatDuration(30*time.Minute))
	assert.Equal(t, "PT5M", FormatDuration(5*time.Minute))
	assert.Equal(t, "P1D", FormatDuration(24*time.Hour))
	assert.Equal(t, "P1DT2H30M", FormatDuration(26*time.Hour+30*time.Minute))
	assert.Equal(t, "-PT15M", FormatDuration(-15*time.Minute))
	assert.Equal(t, "PT1M30S", FormatDuration(90*time.Second))
	assert.Equal(t, "PT0S", FormatDuration(0))
}

func TestDurationRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{30 * time.Minute, 24 * time.Hour, 35 * time.Minute} {
		parsed, err := ParseDuration(FormatDuration(d))
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}
