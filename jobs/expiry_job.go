package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/anjiri1684/mentor_hub/services"
)

const noShowGrace = 15 * time.Minute

func bookingStart(b *models.Booking) (time.Time, bool) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start, err := services.SessionStart(b.SessionDate, b.SessionTime, loc)
	if err != nil {
		log.Printf("⚠️ Booking %s has unparseable session time %q, skipping", b.ID, b.SessionTime)
		return time.Time{}, false
	}
	return start, true
}

// ExpireStaleBookings moves pending bookings past their start time to
// expired: a mentor who never confirmed should not block the slot forever.
func ExpireStaleBookings() {
	log.Println("Running job: ExpireStaleBookings...")

	now := time.Now()

	// No lower bound on session_date: a booking that slipped past earlier
	// sweeps (downtime) must still expire. The status filter keeps the
	// candidate set small, and the status column is indexed.
	var candidates []models.Booking
	err := database.DB.
		Where("status = ? AND session_date <= ?", models.StatusPending, now).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for stale bookings: %v", err)
		return
	}

	expired := 0
	for i := range candidates {
		start, ok := bookingStart(&candidates[i])
		if !ok || start.After(now) {
			continue
		}
		candidates[i].Status = models.StatusExpired
		if err := database.DB.Save(&candidates[i]).Error; err != nil {
			log.Printf("Error expiring booking %s: %v", candidates[i].ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("Marked %d booking(s) as expired.", expired)
	}
}

// MarkNoShows flags confirmed sessions where nobody ever started the call
// and the scheduled end plus a grace period has passed.
func MarkNoShows() {
	log.Println("Running job: MarkNoShows...")

	now := time.Now()

	var candidates []models.Booking
	err := database.DB.
		Where("status = ? AND session_start_time IS NULL AND session_date <= ?", models.StatusConfirmed, now).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for no-shows: %v", err)
		return
	}

	marked := 0
	for i := range candidates {
		start, ok := bookingStart(&candidates[i])
		if !ok {
			continue
		}
		end := start.Add(time.Duration(candidates[i].Duration) * time.Minute)
		if now.Before(end.Add(noShowGrace)) {
			continue
		}
		candidates[i].Status = models.StatusNoShow
		if err := database.DB.Save(&candidates[i]).Error; err != nil {
			log.Printf("Error marking booking %s as no-show: %v", candidates[i].ID, err)
			continue
		}
		marked++
	}

	if marked > 0 {
		log.Printf("Marked %d booking(s) as no-show.", marked)
	}
}
