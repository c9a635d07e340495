package timeslot

import (
	"errors"
	"fmt"
	"time"
)

// ErrConflict is matched by every *ConflictError.
var ErrConflict = errors.New("time slot conflict")

// ConflictError names the existing item a candidate collides with.
type ConflictError struct {
	Subject string
	Time    string
	Day     WeekDay
	Date    string
}

func (e *ConflictError) Error() string {
	when := e.Day.Name()
	if e.Date != "" {
		when = e.Date
	}
	return fmt.Sprintf("conflicts with %s (%s) on %s", e.Subject, e.Time, when)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Slot is a subject held on a weekday at a time.
type Slot struct {
	Subject string
	Day     WeekDay
	Time    string
}

// Claim is something already holding a slot: a class detail of an earlier
// request or a class picked earlier in the same form. Date narrows the claim
// to one calendar day; empty means every week.
type Claim struct {
	Slot
	Date     string
	Rejected bool
}

func (c Claim) blocks(s Slot, date string) bool {
	if c.Rejected || c.Subject != s.Subject || c.Day != s.Day {
		return false
	}
	if c.Date != "" && date != "" && c.Date != date {
		return false
	}
	return Overlaps(c.Time, s.Time)
}

// IsInPast reports whether the slot's start time on day is strictly before now.
// A class that has started but not ended counts as past.
func IsInPast(day WeekDate, timeText string, now time.Time) bool {
	start := FromMinutes(ToInterval(timeText).Start)
	return start.On(day.Date).Before(now)
}

// IsSelectable reports whether a student may still pick slot on day.
func IsSelectable(day WeekDate, slot Slot, claims []Claim, now time.Time) bool {
	if day.IsPast || IsInPast(day, slot.Time, now) {
		return false
	}
	date := day.DateString()
	for _, c := range claims {
		if c.blocks(slot, date) {
			return false
		}
	}
	return true
}

// IsDuplicateRequest reports whether a non-rejected claim already covers slot
// on the same calendar date.
func IsDuplicateRequest(slot Slot, day WeekDate, claims []Claim) bool {
	return FindDuplicate(slot, day, claims) != nil
}

// FindDuplicate is IsDuplicateRequest returning the colliding claim as an error.
func FindDuplicate(slot Slot, day WeekDate, claims []Claim) error {
	date := day.DateString()
	for _, c := range claims {
		if c.Date == date && c.blocks(slot, date) {
			return &ConflictError{Subject: c.Subject, Time: c.Time, Day: c.Day, Date: c.Date}
		}
	}
	return nil
}

// Scheduled is an existing timetable entry considered by FindConflict.
type Scheduled struct {
	ID      string
	Subject string
	Day     WeekDay
	Time    string
}

// FindConflict returns a *ConflictError for the first entry on day whose time
// overlaps timeText. The entry with excludeID is skipped, so an entry being
// edited does not collide with itself.
func FindConflict(day WeekDay, timeText string, existing []Scheduled, excludeID string) error {
	for _, e := range existing {
		if e.Day != day || (excludeID != "" && e.ID == excludeID) {
			continue
		}
		if Overlaps(e.Time, timeText) {
			return &ConflictError{Subject: e.Subject, Time: e.Time, Day: e.Day}
		}
	}
	return nil
}
