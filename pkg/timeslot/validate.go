package timeslot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ErrInvalidFormat is matched by every *FormatError.
var ErrInvalidFormat = errors.New("invalid time format")

// FormatError describes a malformed time or range.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

// ValidTime reports whether text is a well-formed "HH:MM".
func ValidTime(text string) bool {
	return timePattern.MatchString(strings.TrimSpace(text))
}

// ValidateTime checks a single "HH:MM".
func ValidateTime(text string) error {
	if !ValidTime(text) {
		return &FormatError{Input: text, Reason: "expected HH:MM"}
	}
	return nil
}

// ValidateRange checks "HH:MM - HH:MM" with start strictly before end.
func ValidateRange(text string) error {
	start, end, ok := strings.Cut(text, RangeSeparator)
	if !ok {
		return &FormatError{Input: text, Reason: "expected HH:MM - HH:MM"}
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if !ValidTime(start) {
		return &FormatError{Input: text, Reason: "start must be HH:MM"}
	}
	if !ValidTime(end) {
		return &FormatError{Input: text, Reason: "end must be HH:MM"}
	}
	if ParseToMinutes(start) >= ParseToMinutes(end) {
		return &FormatError{Input: text, Reason: "start must precede end"}
	}
	return nil
}

// ValidateSlot accepts either a range or a bare start time.
func ValidateSlot(text string) error {
	if strings.Contains(text, RangeSeparator) {
		return ValidateRange(text)
	}
	return ValidateTime(text)
}

// NormalizeRange validates text and returns it zero-padded,
// e.g. "9:00 - 10:30" becomes "09:00 - 10:30".
func NormalizeRange(text string) (string, error) {
	if err := ValidateRange(text); err != nil {
		return "", err
	}
	iv := ToInterval(text)
	return FromMinutes(iv.Start).String() + RangeSeparator + FromMinutes(iv.End).String(), nil
}

// NormalizeSlot is NormalizeRange that also accepts a bare start time, which
// becomes a DefaultSlotMinutes range ending no later than 23:59.
func NormalizeSlot(text string) (string, error) {
	if strings.Contains(text, RangeSeparator) {
		return NormalizeRange(text)
	}
	start, err := ParseTimeOfDay(text)
	if err != nil {
		return "", err
	}
	end := FromMinutes(start.Minutes() + DefaultSlotMinutes)
	if end.Minutes() <= start.Minutes() {
		return "", &FormatError{Input: text, Reason: "class would run past midnight"}
	}
	return start.String() + RangeSeparator + end.String(), nil
}
