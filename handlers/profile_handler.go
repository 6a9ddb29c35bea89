package handlers

import (
	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/anjiri1684/mentor_hub/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UpdateProfileRequest struct {
	Name           *string   `json:"name"`
	ProfilePicture *string   `json:"profile_picture"`
	Headline       *string   `json:"headline"`
	Bio            *string   `json:"bio"`
	Skills         *[]string `json:"skills"`
	TimeZone       *string   `json:"time_zone"`
	HourlyRate     *float64  `json:"hourly_rate"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}

	wasComplete := user.ProfileComplete()

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
	if req.Headline != nil {
		user.Headline = req.Headline
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Skills != nil {
		user.Skills = pq.StringArray(*req.Skills)
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}
	if req.HourlyRate != nil && user.Role == models.RoleMentor {
		user.HourlyRate = req.HourlyRate
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	// Karma is only awarded on the transition to a complete profile.
	if !wasComplete && user.ProfileComplete() {
		go services.AwardKarma(user.ID, services.KarmaActionProfileComplete)
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

func GetMyProgress(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))

	var totalSessions int64
	database.DB.Model(&models.Booking{}).
		Where("student_id = ? AND status = ?", studentID, models.StatusCompleted).
		Count(&totalSessions)

	var totalHours float64
	database.DB.Model(&models.Booking{}).
		Where("student_id = ? AND status = ?", studentID, models.StatusCompleted).
		Select("COALESCE(SUM(duration) / 60.0, 0)").
		Row().Scan(&totalHours)

	var certificates []models.Certificate
	database.DB.Where("student_id = ?", studentID).
		Order("completion_date desc").
		Find(&certificates)

	return c.JSON(fiber.Map{
		"success":                  true,
		"total_sessions_completed": totalSessions,
		"total_hours_mentored":     totalHours,
		"certificates":             certificates,
	})
}
