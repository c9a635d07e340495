package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToMinutes(t *testing.T) {
	assert.Equal(t, 0, ParseToMinutes("00:00"))
	assert.Equal(t, 9*60+5, ParseToMinutes("9:05"))
	assert.Equal(t, 23*60+59, ParseToMinutes("23:59"))
	assert.Equal(t, 10*60, ParseToMinutes(" 10:00 "))
}

func TestFormatForDisplay(t *testing.T) {
	cases := map[string]string{
		"00:00": "12:00 AM",
		"00:05": "12:05 AM",
		"09:30": "9:30 AM",
		"11:59": "11:59 AM",
		"12:00": "12:00 PM",
		"12:30": "12:30 PM",
		"13:05": "1:05 PM",
		"23:15": "11:15 PM",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatForDisplay(in), in)
	}
}

func TestFormatRangeForDisplay(t *testing.T) {
	assert.Equal(t, "9:00 AM - 10:30 AM", FormatRangeForDisplay("09:00 - 10:30"))
	assert.Equal(t, "11:30 AM - 12:30 PM", FormatRangeForDisplay("11:30 - 12:30"))
	assert.Equal(t, "2:00 PM", FormatRangeForDisplay("14:00"))
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("7:45")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 45}, tod)
	assert.Equal(t, "07:45", tod.String())
	assert.Equal(t, 465, tod.Minutes())

	_, err = ParseTimeOfDay("24:00")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	loc := time.FixedZone("IST", 5*3600+1800)
	at := tod.On(time.Date(2024, 3, 4, 22, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 4, 7, 45, 0, 0, loc), at)

	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 59}, FromMinutes(2000))
	assert.Equal(t, TimeOfDay{}, FromMinutes(-5))
}
