package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/mentor_hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionDay = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, time.June, 1, hour, min, sec, 0, time.UTC)
}

func TestParseSessionTime(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"14:00", 14, 0, false},
		{"09:05", 9, 5, false},
		{"14:00:30", 14, 0, false},
		{"2:00 PM", 14, 0, false},
		{"2:00PM", 14, 0, false},
		{"12:00 AM", 0, 0, false},
		{"12:30 PM", 12, 30, false},
		{"11:59 pm", 23, 59, false},
		{"0:15", 0, 15, false},
		{"24:00", 0, 0, true},
		{"13:00 PM", 0, 0, true},
		{"14:60", 0, 0, true},
		{"2 PM", 0, 0, true},
		{"half past two", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseSessionTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

func TestNormalizeSessionTime(t *testing.T) {
	got, err := NormalizeSessionTime("2:00 PM")
	require.NoError(t, err)
	assert.Equal(t, "14:00", got)

	got, err = NormalizeSessionTime("9:05:00")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	_, err = NormalizeSessionTime("whenever")
	assert.ErrorIs(t, err, ErrInvalidSessionTime)
}

func TestSessionStartStripsEmbeddedTime(t *testing.T) {
	// sessionDate often arrives as a full instant; only its calendar date counts.
	date := time.Date(2025, time.June, 1, 18, 45, 12, 0, time.UTC)
	start, err := SessionStart(date, "2:00 PM", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(14, 0, 0), start)
}

func TestEvaluateConfirmedInsideJoinWindow(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "2:00 PM", 60, models.StatusConfirmed, at(13, 56, 0), time.UTC)

	assert.True(t, timing.CanJoin)
	assert.True(t, timing.StartingSoon)
	assert.Equal(t, "Starts in 4m 0s", timing.Message)
	require.NotNil(t, timing.TimeLeft)
	assert.Equal(t, 240, *timing.TimeLeft)
	require.NotNil(t, timing.Clock)
	assert.Equal(t, ClockDisplay{Minutes: 4}, *timing.Clock)
}

func TestEvaluateConfirmedMidSession(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusConfirmed, at(14, 30, 0), time.UTC)

	assert.True(t, timing.CanJoin)
	assert.True(t, timing.InProgress)
	assert.Equal(t, "In progress (30m 0s left)", timing.Message)
	require.NotNil(t, timing.TimeLeft)
	assert.Equal(t, 1800, *timing.TimeLeft)
}

func TestEvaluateConfirmedAfterEnd(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "2:00 PM", 60, models.StatusConfirmed, at(15, 1, 0), time.UTC)

	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Ended 1m ago", timing.Message)
	assert.Nil(t, timing.TimeLeft)
}

func TestEvaluatePendingNeverJoinable(t *testing.T) {
	// Same window as the joinable confirmed case; pending must stay closed.
	timing := EvaluateSessionTiming(sessionDay, "2:00 PM", 60, models.StatusPending, at(13, 56, 0), time.UTC)

	assert.False(t, timing.CanJoin)
	assert.True(t, timing.Pending)
	assert.Equal(t, "Pending - Starts in 4m 0s", timing.Message)

	timing = EvaluateSessionTiming(sessionDay, "2:00 PM", 60, models.StatusPending, at(14, 30, 0), time.UTC)
	assert.False(t, timing.CanJoin)
	assert.True(t, timing.InProgress)
}

func TestEvaluateConfirmedOutsideJoinWindow(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "2:00 PM", 60, models.StatusConfirmed, at(13, 50, 0), time.UTC)

	assert.False(t, timing.CanJoin)
	assert.False(t, timing.StartingSoon)
	assert.Equal(t, "Starts in 10m 0s", timing.Message)
}

func TestEvaluateLongCountdownUnits(t *testing.T) {
	now := time.Date(2025, time.May, 30, 10, 55, 30, 0, time.UTC)
	timing := EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusConfirmed, now, time.UTC)

	assert.Equal(t, "Starts in 2d 3h 4m", timing.Message)
	require.NotNil(t, timing.Clock)
	assert.Equal(t, ClockDisplay{Days: 2, Hours: 3, Minutes: 4, Seconds: 30}, *timing.Clock)
}

func TestEvaluateTerminalAndAuxiliaryStatuses(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusCancelled, at(13, 0, 0), time.UTC)
	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Session cancelled", timing.Message)

	timing = EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusCompleted, at(13, 0, 0), time.UTC)
	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Session completed", timing.Message)

	timing = EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusNoShow, at(13, 0, 0), time.UTC)
	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Status: no-show", timing.Message)
}

func TestEvaluateFailsClosedOnBadTime(t *testing.T) {
	timing := EvaluateSessionTiming(sessionDay, "sometime after lunch", 60, models.StatusConfirmed, at(13, 56, 0), time.UTC)

	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Invalid session time", timing.Message)
}

func TestEvaluateEndedLongAgo(t *testing.T) {
	now := time.Date(2025, time.June, 3, 16, 0, 0, 0, time.UTC)
	timing := EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusConfirmed, now, time.UTC)

	assert.False(t, timing.CanJoin)
	assert.Equal(t, "Ended 2d ago", timing.Message)
}

func TestEvaluateHonorsBookingLocationNotClockLocation(t *testing.T) {
	// 14:00 in Kolkata is 08:30 UTC; the caller's clock being in UTC must
	// not shift the session start.
	kolkata := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, time.June, 1, 8, 26, 0, 0, time.UTC)

	timing := EvaluateSessionTiming(sessionDay, "14:00", 60, models.StatusConfirmed, now, kolkata)

	assert.True(t, timing.CanJoin)
	assert.Equal(t, "Starts in 4m 0s", timing.Message)
}
