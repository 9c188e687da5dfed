package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
)

func offsetConverter(t *testing.T, hours, minutes int) *Converter {
	t.Helper()
	c, err := NewConverter(config.TimeConfig{
		Mode:          config.TimeModeOffset,
		OffsetHours:   hours,
		OffsetMinutes: minutes,
		Marker:        "⏰",
	})
	require.NoError(t, err)
	return c
}

func timezoneConverter(t *testing.T, source, target string) *Converter {
	t.Helper()
	c, err := NewConverter(config.TimeConfig{
		Mode:           config.TimeModeTimezone,
		SourceTimezone: source,
		TargetTimezone: target,
		Marker:         "⏰",
	})
	require.NoError(t, err)
	// Deterministic anchor date for bare time conversions.
	c.now = func() time.Time {
		return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestShiftFixedOffset(t *testing.T) {
	c := offsetConverter(t, 3, 30)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple time",
			in:   "Kickoff at 10:00 sharp",
			want: "Kickoff at 13:30 sharp",
		},
		{
			name: "hour wraps modulo 24",
			in:   "Doors close 23:50",
			want: "Doors close 03:20",
		},
		{
			name: "seconds preserved",
			in:   "Timestamp 08:15:45",
			want: "Timestamp 11:45:45",
		},
		{
			name: "multiple times",
			in:   "From 10:00 to 11:30",
			want: "From 13:30 to 15:00",
		},
		{
			name: "no time token",
			in:   "Nothing to shift here",
			want: "Nothing to shift here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := c.Shift(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftFixedOffsetInvalidToken(t *testing.T) {
	c := offsetConverter(t, 3, 30)

	got, outcomes := c.Shift("Broken time 99:99 but valid 10:00")

	assert.Equal(t, "Broken time 99:99 but valid 13:30", got)

	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.Equal(t, "99:99", outcomes[0].Token)
	assert.NoError(t, outcomes[1].Err)
}

func TestShiftTimezoneCombined(t *testing.T) {
	// Kathmandu is UTC+05:45 year-round; the conversion crosses midnight
	// and must roll the date forward.
	c := timezoneConverter(t, "UTC", "Asia/Kathmandu")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "time first, date rolls forward",
			in:   "Launch 23:00 01/01/2024",
			want: "Launch 04:45 02/01/2024",
		},
		{
			name: "date first",
			in:   "On 01/01/2024 10:00 we begin",
			want: "On 01/01/2024 15:45 we begin",
		},
		{
			name: "combined with seconds",
			in:   "At 10:00:30 01/01/2024",
			want: "At 15:45:30 01/01/2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := c.Shift(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftTimezoneBareTime(t *testing.T) {
	c := timezoneConverter(t, "UTC", "Asia/Kathmandu")

	got, _ := c.Shift("Stream starts 10:00")
	assert.Equal(t, "Stream starts 15:45", got)
}

func TestShiftTimezoneMarkedTime(t *testing.T) {
	c := timezoneConverter(t, "UTC", "Asia/Kathmandu")

	got, outcomes := c.Shift("Reminder ⏰ 10:00 today")

	assert.Equal(t, "Reminder ⏰ 15:45 today", got)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "10:00", outcomes[0].Token)
}

func TestShiftTimezoneNoDoubleConversion(t *testing.T) {
	// The bare-time scan must skip spans already consumed by a combined
	// date+time token: the time is converted exactly once.
	c := timezoneConverter(t, "UTC", "Asia/Kathmandu")

	got, outcomes := c.Shift("Launch 10:00 01/01/2024")

	assert.Equal(t, "Launch 15:45 01/01/2024", got)
	require.Len(t, outcomes, 1)
}

func TestShiftTimezoneInvalidTokenLeftUnchanged(t *testing.T) {
	c := timezoneConverter(t, "UTC", "Asia/Kathmandu")

	got, outcomes := c.Shift("Bad 25:00 stays")

	assert.Equal(t, "Bad 25:00 stays", got)
	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)
}
