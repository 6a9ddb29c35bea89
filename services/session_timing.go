package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anjiri1684/mentor_hub/models"
)

// joinWindowSeconds is how long before the scheduled start a confirmed
// session opens for joining.
const joinWindowSeconds = 300

var ErrInvalidSessionTime = errors.New("invalid session time")

// ClockDisplay is the machine-readable countdown tuple clients render.
type ClockDisplay struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// SessionTiming is the result of evaluating a booking against a clock
// instant. It is pure data; callers re-evaluate at whatever cadence they
// poll at.
type SessionTiming struct {
	CanJoin      bool          `json:"can_join"`
	Message      string        `json:"message"`
	TimeLeft     *int          `json:"time_left,omitempty"` // seconds
	StartingSoon bool          `json:"starting_soon,omitempty"`
	InProgress   bool          `json:"in_progress,omitempty"`
	Pending      bool          `json:"is_pending,omitempty"`
	Clock        *ClockDisplay `json:"clock,omitempty"`
}

// ParseSessionTime accepts both 24-hour ("15:04", "15:04:00") and
// 12-hour ("3:04 PM") clock strings and returns the hour and minute.
func ParseSessionTime(raw string) (hour, minute int, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, ErrInvalidSessionTime
	}

	var period string
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		period = upper[len(upper)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, ErrInvalidSessionTime
	}
	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, ErrInvalidSessionTime
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidSessionTime
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
			return 0, 0, ErrInvalidSessionTime
		}
	}

	if period != "" {
		if hour < 1 || hour > 12 {
			return 0, 0, ErrInvalidSessionTime
		}
		if period == "PM" && hour != 12 {
			hour += 12
		} else if period == "AM" && hour == 12 {
			hour = 0
		}
	} else if hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidSessionTime
	}

	return hour, minute, nil
}

// NormalizeSessionTime canonicalizes any accepted clock string to "HH:MM".
// Bookings persist only the canonical form, so conflict checks and the
// slot uniqueness index never see two spellings of the same minute.
func NormalizeSessionTime(raw string) (string, error) {
	hour, minute, err := ParseSessionTime(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// SessionStart combines the calendar-date portion of sessionDate with the
// clock portion of sessionTime in loc. Any time-of-day embedded in
// sessionDate is discarded.
func SessionStart(sessionDate time.Time, sessionTime string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseSessionTime(sessionTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(sessionDate.Year(), sessionDate.Month(), sessionDate.Day(), hour, minute, 0, 0, loc), nil
}

// EvaluateSessionTiming is the one shared join-eligibility and countdown
// computation for a booking. It is stateless and side-effect free: the
// API enforces its CanJoin verdict before handing out a room, and clients
// poll it every second for the countdown display. loc is the booking's
// timezone, used to anchor the wall-clock sessionTime; now can be in any
// location since the comparison is between absolute instants.
func EvaluateSessionTiming(sessionDate time.Time, sessionTime string, duration int, status models.BookingStatus, now time.Time, loc *time.Location) SessionTiming {
	start, err := SessionStart(sessionDate, sessionTime, loc)
	if err != nil {
		return SessionTiming{CanJoin: false, Message: "Invalid session time"}
	}

	if status == models.StatusCancelled {
		return SessionTiming{CanJoin: false, Message: "Session cancelled"}
	}
	if status == models.StatusCompleted {
		return SessionTiming{CanJoin: false, Message: "Session completed"}
	}

	if status != models.StatusPending && status != models.StatusConfirmed {
		return SessionTiming{CanJoin: false, Message: fmt.Sprintf("Status: %s", status)}
	}

	durationSeconds := duration * 60
	untilStart := int(math.Floor(start.Sub(now).Seconds()))

	canJoin := status == models.StatusConfirmed &&
		untilStart <= joinWindowSeconds &&
		untilStart >= -durationSeconds

	switch {
	case untilStart > 0:
		clock := splitSeconds(untilStart)
		msg := "Starts in " + countdownMessage(clock)
		if status == models.StatusPending {
			msg = "Pending - " + msg
		}
		timeLeft := untilStart
		return SessionTiming{
			CanJoin:      canJoin,
			Message:      msg,
			TimeLeft:     &timeLeft,
			StartingSoon: canJoin,
			Pending:      status == models.StatusPending,
			Clock:        &clock,
		}

	case untilStart >= -durationSeconds:
		remaining := durationSeconds + untilStart
		clock := splitSeconds(remaining)
		return SessionTiming{
			CanJoin:    canJoin,
			Message:    fmt.Sprintf("In progress (%s left)", shortClock(remaining)),
			TimeLeft:   &remaining,
			InProgress: true,
			Pending:    status == models.StatusPending,
			Clock:      &clock,
		}

	default:
		end := start.Add(time.Duration(durationSeconds) * time.Second)
		return SessionTiming{
			CanJoin: false,
			Message: fmt.Sprintf("Ended %s ago", elapsedMessage(int(math.Floor(now.Sub(end).Seconds())))),
		}
	}
}

func splitSeconds(total int) ClockDisplay {
	return ClockDisplay{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// countdownMessage renders the most significant non-zero units.
func countdownMessage(c ClockDisplay) string {
	switch {
	case c.Days > 0:
		return fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)
	case c.Hours > 0:
		return fmt.Sprintf("%dh %dm %ds", c.Hours, c.Minutes, c.Seconds)
	case c.Minutes > 0:
		return fmt.Sprintf("%dm %ds", c.Minutes, c.Seconds)
	default:
		return fmt.Sprintf("%ds", c.Seconds)
	}
}

func shortClock(seconds int) string {
	minutes := seconds / 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

func elapsedMessage(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case hours > 24:
		return fmt.Sprintf("%dd", hours/24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
