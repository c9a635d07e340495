package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekDay is a day index with Sunday as 0, matching time.Weekday.
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Valid reports whether d is within 0..6.
func (d WeekDay) Valid() bool { return d >= Sunday && d <= Saturday }

// Name returns the English day name.
func (d WeekDay) Name() string {
	if !d.Valid() {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return dayNames[d]
}

func (d WeekDay) String() string { return d.Name() }

// DayOf returns the WeekDay of t in t's location.
func DayOf(t time.Time) WeekDay { return WeekDay(t.Weekday()) }

// ParseWeekDay accepts "0".."6", a day name or its three-letter abbreviation.
func ParseWeekDay(text string) (WeekDay, error) {
	s := strings.TrimSpace(text)
	if n, err := strconv.Atoi(s); err == nil {
		if d := WeekDay(n); d.Valid() {
			return d, nil
		}
		return 0, fmt.Errorf("weekday %d out of range 0-6", n)
	}
	for i, name := range dayNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return WeekDay(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", text)
}

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate reads "YYYY-MM-DD" as midnight in loc.
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(text), loc)
}

// WeekDate is one column of the weekly grid.
type WeekDate struct {
	Date    time.Time
	Day     WeekDay
	Name    string
	IsToday bool
	IsPast  bool
}

// DateString formats Date as "YYYY-MM-DD".
func (w WeekDate) DateString() string { return w.Date.Format(DateLayout) }

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateOf classifies a calendar date relative to now.
func DateOf(date, now time.Time) WeekDate {
	d := midnight(date)
	day := DayOf(d)
	return WeekDate{
		Date:    d,
		Day:     day,
		Name:    day.Name(),
		IsToday: dayKey(d) == dayKey(now),
		IsPast:  dayKey(d) < dayKey(now),
	}
}

// CurrentWeek returns the seven days from the most recent Sunday, in now's location.
func CurrentWeek(now time.Time) []WeekDate {
	start := midnight(now).AddDate(0, 0, -int(now.Weekday()))
	week := make([]WeekDate, 0, 7)
	for i := 0; i < 7; i++ {
		week = append(week, DateOf(start.AddDate(0, 0, i), now))
	}
	return week
}
