package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	config "github.com/anjiri1684/mentor_hub/configs"
	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Karma actions understood by the external karma service. The service is
// gamification only: every award here is fire-and-forget and must never
// fail the operation that triggered it.
const (
	KarmaActionProfileComplete  = "profile-complete"
	KarmaActionSessionCompleted = "session-completed"
)

type KarmaResponse struct {
	User    string `json:"user"`
	Karma   int    `json:"karma"`
	Message string `json:"message"`
}

var karmaClient = &http.Client{Timeout: 5 * time.Second}

// RequestKarmaAward asks the karma service how many points the given
// action is worth. Returns an error if the service is unconfigured,
// unreachable or answers non-200.
func RequestKarmaAward(action string) (int, error) {
	baseURL := config.Config("KARMA_SERVICE_URL")
	if baseURL == "" {
		return 0, fmt.Errorf("karma service not configured")
	}

	resp, err := karmaClient.Get(fmt.Sprintf("%s/api/karma/%s", baseURL, action))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("karma service returned status %d", resp.StatusCode)
	}

	var data KarmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}
	return data.Karma, nil
}

// AwardKarma fetches the point value for action and adds it to the user's
// cached karma total. Failures are logged and swallowed.
func AwardKarma(userID uuid.UUID, action string) {
	points, err := RequestKarmaAward(action)
	if err != nil {
		log.Printf("⚠️ Karma award (%s) skipped for user %s: %v", action, userID, err)
		return
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("karma_points", gorm.Expr("karma_points + ?", points)).Error; err != nil {
		log.Printf("🔥 Failed to record %d karma points for user %s: %v", points, userID, err)
		return
	}
	log.Printf("✅ Awarded %d karma points to user %s for %s.", points, userID, action)
}
