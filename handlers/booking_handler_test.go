package handlers

import (
	"testing"
	"time"

	"github.com/anjiri1684/mentor_hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "plain date",
			raw:  "2025-06-15",
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with embedded clock is truncated to the date",
			raw:  "2025-06-15T18:30:00Z",
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2025-06-15T00:00:00+05:30",
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSessionDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}

	_, err := parseSessionDate("15/06/2025")
	assert.Error(t, err)
	_, err = parseSessionDate("")
	assert.Error(t, err)
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "fallback", defaultString("", "fallback"))
	assert.Equal(t, "value", defaultString("value", "fallback"))
}

func TestBookingLocation(t *testing.T) {
	booking := &models.Booking{Timezone: "America/New_York"}
	loc := bookingLocation(booking)
	assert.Equal(t, "America/New_York", loc.String())

	booking.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, bookingLocation(booking))

	booking.Timezone = ""
	assert.Equal(t, time.UTC, bookingLocation(booking))
}
