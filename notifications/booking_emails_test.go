package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingEmailBuilders(t *testing.T) {
	date := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	m := BookingRequestedEmail("Asha", date, "14:00")
	assert.Contains(t, m.HTML, "Asha")
	assert.Contains(t, m.HTML, "June 1, 2025")
	assert.Contains(t, m.HTML, "14:00")

	m = BookingConfirmedEmail("Ravi", date, "14:00")
	assert.Contains(t, m.HTML, "Ravi")
	assert.Equal(t, "Your Session is Confirmed!", m.Subject)

	start := time.Date(2025, time.June, 1, 14, 0, 0, 0, time.UTC)
	m = SessionReminderEmail("Go Interview Prep", start, "https://app.example.com/session/session_abc")
	assert.Contains(t, m.HTML, "Go Interview Prep")
	assert.Contains(t, m.HTML, "2:00PM")
	assert.Contains(t, m.HTML, "https://app.example.com/session/session_abc")

	m = PasswordResetEmail("https://app.example.com/reset-password?token=tok")
	assert.Contains(t, m.HTML, "token=tok")
}
