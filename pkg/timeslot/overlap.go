package timeslot

import "strings"

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// ToInterval reads a range, or a bare time as [t, t+DefaultSlotMinutes).
func ToInterval(text string) Interval {
	if start, end, ok := strings.Cut(text, RangeSeparator); ok {
		return Interval{Start: ParseToMinutes(start), End: ParseToMinutes(end)}
	}
	s := ParseToMinutes(text)
	return Interval{Start: s, End: s + DefaultSlotMinutes}
}

// Overlaps reports whether the intervals share an instant. Touching ends do not count.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Overlaps compares two range-or-time texts.
func Overlaps(a, b string) bool {
	return ToInterval(a).Overlaps(ToInterval(b))
}
