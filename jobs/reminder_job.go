package jobs

import (
	"fmt"
	"log"
	"time"

	config "github.com/anjiri1684/mentor_hub/configs"
	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/anjiri1684/mentor_hub/notifications"
)

// SendSessionReminders emails both parties of confirmed sessions starting in
// roughly one hour. The 60-65 minute window matches the 5 minute cron cadence
// so each booking is picked up exactly once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var candidates []models.Booking
	err := database.DB.
		Preload("Student").
		Preload("Mentor").
		Where("status = ? AND session_date BETWEEN ? AND ?",
			models.StatusConfirmed, now.Add(-24*time.Hour), now.Add(48*time.Hour)).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for i := range candidates {
		booking := &candidates[i]
		start, ok := bookingStart(booking)
		if !ok || start.Before(lowerBound) || !start.Before(upperBound) {
			continue
		}

		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		meetingLink := fmt.Sprintf("%s/session/%s", config.Config("FRONTEND_URL"), booking.RoomID)
		if booking.MeetingLink != nil && *booking.MeetingLink != "" {
			meetingLink = *booking.MeetingLink
		}

		reminder := notifications.SessionReminderEmail(booking.SessionTitle, start, meetingLink)
		go notifications.Send(booking.Student.Name, booking.Student.Email, reminder)
		go notifications.Send(booking.Mentor.Name, booking.Mentor.Email, reminder)
	}
}
