package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"09:00 - 10:00", "10:00 - 11:00", false},
		{"09:00 - 10:00", "09:30 - 10:30", true},
		{"09:00", "09:30 - 10:00", true},
		{"09:00", "09:00 - 10:00", true},
		{"09:00", "10:00", false},
		{"09:00 - 12:00", "10:00 - 11:00", true},
		{"08:00 - 09:00", "09:00", false},
		{"13:00 - 14:00", "09:00 - 10:00", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Overlaps(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
		assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "symmetric %s vs %s", tt.b, tt.a)
	}
}

func TestOverlapsReflexive(t *testing.T) {
	for _, r := range []string{"00:00 - 00:01", "09:00 - 10:00", "23:00", "12:15 - 18:45"} {
		assert.True(t, Overlaps(r, r), r)
	}
}

func TestToInterval(t *testing.T) {
	assert.Equal(t, Interval{Start: 540, End: 600}, ToInterval("09:00"))
	assert.Equal(t, Interval{Start: 540, End: 630}, ToInterval("09:00 - 10:30"))
}
