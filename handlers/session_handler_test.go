package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/mentor_hub/models"
	"github.com/stretchr/testify/assert"
)

func TestEnsureRoomIDIsIdempotent(t *testing.T) {
	booking := &models.Booking{}

	assert.True(t, ensureRoomID(booking))
	assert.True(t, strings.HasPrefix(booking.RoomID, "session_"))

	first := booking.RoomID
	assert.False(t, ensureRoomID(booking), "a second join must not mint a new room")
	assert.Equal(t, first, booking.RoomID)
}

func TestActualDurationMinutes(t *testing.T) {
	start := time.Date(2025, time.June, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exact hour", start.Add(60 * time.Minute), 60},
		{"rounds down under half a minute", start.Add(45*time.Minute + 20*time.Second), 45},
		{"rounds up over half a minute", start.Add(45*time.Minute + 40*time.Second), 46},
		{"very short call", start.Add(20 * time.Second), 0},
		{"half minute rounds up", start.Add(30 * time.Second), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, actualDurationMinutes(start, tt.end))
		})
	}
}
