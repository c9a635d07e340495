package timeslot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInPast_Today(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 15, 0, 0, time.UTC)
	today := DateOf(now, now)
	require.True(t, today.IsToday)
	require.False(t, today.IsPast)

	assert.False(t, IsInPast(today, "11:00 - 12:00", now))
	assert.True(t, IsInPast(today, "09:00 - 10:00", now))
	// started but not finished still counts as past
	assert.True(t, IsInPast(today, "10:00 - 11:00", now))
	assert.False(t, IsInPast(today, "10:15", now))
}

func TestIsSelectable(t *testing.T) {
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC) // Monday morning
	week := CurrentWeek(now)
	monday, tuesday, sunday := week[1], week[2], week[0]
	slot := Slot{Subject: "Algorithms", Day: Monday, Time: "09:00 - 10:00"}

	assert.True(t, IsSelectable(monday, slot, nil, now))
	assert.False(t, IsSelectable(sunday, Slot{Subject: "X", Day: Sunday, Time: "09:00 - 10:00"}, nil, now))

	claims := []Claim{{Slot: Slot{Subject: "Algorithms", Day: Monday, Time: "09:30 - 10:30"}, Date: "2024-03-04"}}
	assert.False(t, IsSelectable(monday, slot, claims, now))

	claims[0].Rejected = true
	assert.True(t, IsSelectable(monday, slot, claims, now))

	other := []Claim{{Slot: Slot{Subject: "Networks", Day: Monday, Time: "09:00 - 10:00"}}}
	assert.True(t, IsSelectable(monday, slot, other, now))

	touching := []Claim{{Slot: Slot{Subject: "Algorithms", Day: Monday, Time: "10:00 - 11:00"}}}
	assert.True(t, IsSelectable(monday, slot, touching, now))

	tueSlot := Slot{Subject: "Algorithms", Day: Tuesday, Time: "09:00 - 10:00"}
	assert.True(t, IsSelectable(tuesday, tueSlot, claims[:0], now))

	lastWeek := []Claim{{Slot: slot, Date: "2024-02-26"}}
	assert.True(t, IsSelectable(monday, slot, lastWeek, now))
}

func TestIsDuplicateRequest(t *testing.T) {
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	d, _ := ParseDate("2024-03-04", time.UTC)
	monday := DateOf(d, now)
	slot := Slot{Subject: "Algorithms", Day: Monday, Time: "09:00 - 10:00"}

	existing := []Claim{{Slot: slot, Date: "2024-03-04"}}
	assert.True(t, IsDuplicateRequest(slot, monday, existing))
	assert.True(t, IsDuplicateRequest(Slot{Subject: "Algorithms", Day: Monday, Time: "09:30 - 10:30"}, monday, existing))

	err := FindDuplicate(slot, monday, existing)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Algorithms", ce.Subject)
	assert.Equal(t, "2024-03-04", ce.Date)

	existing[0].Rejected = true
	assert.False(t, IsDuplicateRequest(slot, monday, existing))

	nextWeek := []Claim{{Slot: slot, Date: "2024-03-11"}}
	assert.False(t, IsDuplicateRequest(slot, monday, nextWeek))
}

func TestFindConflict(t *testing.T) {
	existing := []Scheduled{{ID: "e1", Subject: "Algorithms", Day: Monday, Time: "09:00 - 10:00"}}

	err := FindConflict(Monday, "09:30 - 10:30", existing, "")
	require.ErrorIs(t, err, ErrConflict)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Algorithms", ce.Subject)
	assert.Equal(t, "09:00 - 10:00", ce.Time)
	assert.Contains(t, err.Error(), "Algorithms")
	assert.Contains(t, err.Error(), "Monday")

	assert.NoError(t, FindConflict(Monday, "10:00 - 11:00", existing, ""))
	assert.NoError(t, FindConflict(Tuesday, "09:30 - 10:30", existing, ""))
	assert.NoError(t, FindConflict(Monday, "09:30 - 10:30", existing, "e1"))
}
