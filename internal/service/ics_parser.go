package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ── iCalendar import ──
//
// Each VEVENT becomes one class: SUMMARY is the subject, DTSTART/DTEND give
// the weekday and time range in the desk's timezone. Events with a weekly
// RRULE become weekly classes; other events are held only on their date.
// Events repeating the same subject, day and time are merged.

// icsClass is a class read from a calendar.
type icsClass struct {
	Subject string
	Day     timeslot.WeekDay
	// Date is set for one-off events.
	Date string
	Time string
}

// ParseICS reads the classes of a calendar, in event order.
func ParseICS(reader io.Reader, loc *time.Location) ([]icsClass, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var classes []icsClass
	seen := make(map[icsClass]bool)
	for _, evt := range cal.Events() {
		c, ok := parseVEvent(evt, loc)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		classes = append(classes, c)
	}
	return mergeWeekly(classes), nil
}

// mergeWeekly drops one-off occurrences already covered by a weekly class.
func mergeWeekly(classes []icsClass) []icsClass {
	weekly := make(map[icsClass]bool)
	for _, c := range classes {
		if c.Date == "" {
			weekly[c] = true
		}
	}
	out := classes[:0]
	for _, c := range classes {
		if c.Date != "" {
			k := c
			k.Date = ""
			if weekly[k] {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func parseVEvent(evt *ics.VEvent, loc *time.Location) (icsClass, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return icsClass{}, false
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return icsClass{}, false
	}
	end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		end = start.Add(eventDuration(evt))
	}
	if !sameDay(start, end) || !end.After(start) {
		return icsClass{}, false
	}

	c := icsClass{
		Subject: strings.TrimSpace(summary.Value),
		Day:     timeslot.DayOf(start),
		Time:    start.Format("15:04") + timeslot.RangeSeparator + end.Format("15:04"),
	}
	if !isWeekly(evt) {
		c.Date = start.Format(timeslot.DateLayout)
	}
	return c, true
}

// eventDuration reads DURATION such as "PT1H30M", defaulting to one slot.
func eventDuration(evt *ics.VEvent) time.Duration {
	fallback := timeslot.DefaultSlotMinutes * time.Minute
	prop := evt.GetProperty(ics.ComponentPropertyDuration)
	if prop == nil {
		return fallback
	}
	v := strings.ToLower(strings.TrimPrefix(strings.ToUpper(prop.Value), "PT"))
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isWeekly(evt *ics.VEvent) bool {
	rrule := evt.GetProperty(ics.ComponentPropertyRrule)
	if rrule == nil {
		return false
	}
	for _, part := range strings.Split(rrule.Value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, "FREQ") {
			return strings.EqualFold(v, "WEEKLY")
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseICSDateTime reads a DTSTART/DTEND property, honouring TZID and UTC forms.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unreadable date %q", val)
}
