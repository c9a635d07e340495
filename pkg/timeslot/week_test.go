package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekDay(t *testing.T) {
	assert.Equal(t, "Sunday", Sunday.Name())
	assert.Equal(t, "Saturday", Saturday.Name())
	assert.Equal(t, "WeekDay(9)", WeekDay(9).Name())
	assert.Equal(t, Monday, DayOf(time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)))
}

func TestParseWeekDay(t *testing.T) {
	cases := map[string]WeekDay{
		"0":         Sunday,
		"6":         Saturday,
		"monday":    Monday,
		" Tuesday ": Tuesday,
		"THU":       Thursday,
	}
	for in, want := range cases {
		got, err := ParseWeekDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"7", "-1", "Funday", ""} {
		_, err := ParseWeekDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestCurrentWeek(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	base := time.Date(2024, 3, 3, 10, 30, 0, 0, loc) // a Sunday

	for offset := 0; offset < 7; offset++ {
		now := base.AddDate(0, 0, offset)
		week := CurrentWeek(now)
		require.Len(t, week, 7)

		today, past := 0, 0
		for i, wd := range week {
			assert.Equal(t, WeekDay(i), wd.Day)
			assert.Equal(t, WeekDay(i).Name(), wd.Name)
			assert.Equal(t, loc, wd.Date.Location())
			if wd.IsToday {
				today++
				assert.False(t, wd.IsPast)
				assert.Equal(t, now.Format(DateLayout), wd.DateString())
			}
			if wd.IsPast {
				past++
			}
		}
		assert.Equal(t, 1, today, "now=%s", now)
		assert.Equal(t, int(now.Weekday()), past, "now=%s", now)
		assert.Equal(t, "2024-03-03", week[0].DateString())
	}
}

func TestCurrentWeekAcrossMonth(t *testing.T) {
	week := CurrentWeek(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)) // Friday
	assert.Equal(t, "2024-02-25", week[0].DateString())
	assert.Equal(t, "2024-03-02", week[6].DateString())
	assert.True(t, week[5].IsToday)
}

func TestDateOf(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	d, err := ParseDate("2024-03-04", time.UTC)
	require.NoError(t, err)

	wd := DateOf(d, now)
	assert.Equal(t, Monday, wd.Day)
	assert.True(t, wd.IsPast)
	assert.False(t, wd.IsToday)

	future := DateOf(now.AddDate(0, 0, 10), now)
	assert.False(t, future.IsPast)
	assert.False(t, future.IsToday)
}
