package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// RangeSeparator joins the two halves of a range, e.g. "09:00 - 10:00".
	RangeSeparator = " - "
	// DefaultSlotMinutes is the length given to a bare start time.
	DefaultSlotMinutes = 60
	// MinutesPerDay upper bound for minute offsets.
	MinutesPerDay = 24 * 60
)

// ParseToMinutes converts "HH:MM" (one or two hour digits) to minutes since
// midnight. It does not validate; malformed input yields a meaningless value.
func ParseToMinutes(text string) int {
	h, m, _ := strings.Cut(strings.TrimSpace(text), ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}

// FormatForDisplay renders "HH:MM" as a 12-hour label such as "9:05 AM".
func FormatForDisplay(text string) string {
	total := ParseToMinutes(text)
	hour, minute := total/60, total%60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// FormatRangeForDisplay formats both halves of a range, or a bare time.
func FormatRangeForDisplay(text string) string {
	start, end, ok := strings.Cut(text, RangeSeparator)
	if !ok {
		return FormatForDisplay(text)
	}
	return FormatForDisplay(start) + RangeSeparator + FormatForDisplay(end)
}

// TimeOfDay is a validated wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay validates and parses "HH:MM".
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	if err := ValidateTime(text); err != nil {
		return TimeOfDay{}, err
	}
	total := ParseToMinutes(text)
	return TimeOfDay{Hour: total / 60, Minute: total % 60}, nil
}

// FromMinutes converts a minute offset back to a TimeOfDay, clamped to the day.
func FromMinutes(m int) TimeOfDay {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// String renders the canonical zero-padded form.
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// On places the time on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}
