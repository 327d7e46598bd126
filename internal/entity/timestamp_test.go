package entity

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp_RendersBerlinCivilTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			// CET, UTC+1.
			name: "winter",
			in:   time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC),
			want: "02/01/24 16:04:05",
		},
		{
			// CEST, UTC+2.
			name: "summer",
			in:   time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC),
			want: "01/07/24 14:00:00",
		},
		{
			name: "single digits zero padded",
			in:   time.Date(2026, time.March, 5, 8, 9, 7, 0, time.UTC),
			want: "05/03/26 09:09:07",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Timestamp(tt.in))
		})
	}
}

func TestTimestamp_RoundTripsThroughLayout(t *testing.T) {
	t.Parallel()

	rendered := Timestamp(time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC))
	parsed, err := time.Parse(TimestampLayout, rendered)
	assert.NoError(t, err)
	assert.Equal(t, rendered, parsed.Format(TimestampLayout))
}

func TestLoadLocation_FallsBackToUTC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, loadLocation("Not/AZone"))
}
