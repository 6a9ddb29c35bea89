package handlers

import (
	"strconv"

	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func ListMentors(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.User{}).Where("role = ? AND is_active = ?", models.RoleMentor, true)

	if skill := c.Query("skill"); skill != "" {
		query = query.Where("? = ANY(skills)", skill)
	}
	if maxRate := c.Query("max_rate"); maxRate != "" {
		query = query.Where("hourly_rate <= ?", maxRate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve mentors"})
	}

	var mentors []models.User
	if err := query.Order("karma_points desc, created_at asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&mentors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve mentors"})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return c.JSON(fiber.Map{
		"success": true,
		"mentors": mentors,
		"pagination": fiber.Map{
			"current":      page,
			"total":        totalPages,
			"count":        len(mentors),
			"totalMentors": total,
		},
	})
}

func GetMentor(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")
	if _, err := uuid.Parse(mentorID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid mentor ID"})
	}

	var mentor models.User
	if err := database.DB.First(&mentor, "id = ? AND role = ? AND is_active = ?", mentorID, models.RoleMentor, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Mentor not found"})
	}

	var completedSessions int64
	database.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND status = ?", mentor.ID, models.StatusCompleted).
		Count(&completedSessions)

	var avgRating struct{ Avg float64 }
	database.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND rating_student_rating IS NOT NULL", mentor.ID).
		Select("COALESCE(AVG(rating_student_rating), 0) as avg").
		Scan(&avgRating)

	return c.JSON(fiber.Map{
		"success":            true,
		"mentor":             mentor,
		"completed_sessions": completedSessions,
		"average_rating":     avgRating.Avg,
	})
}

// GetMentorReviews lists student ratings left on the mentor's completed
// sessions, most recent first.
func GetMentorReviews(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")
	if _, err := uuid.Parse(mentorID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid mentor ID"})
	}

	var bookings []models.Booking
	database.DB.Preload("Student").
		Where("mentor_id = ? AND status = ? AND rating_student_rating IS NOT NULL", mentorID, models.StatusCompleted).
		Order("updated_at desc").
		Find(&bookings)

	reviews := make([]fiber.Map, 0, len(bookings))
	for _, b := range bookings {
		reviews = append(reviews, fiber.Map{
			"bookingId":   b.ID,
			"rating":      b.SessionRating.Student.Rating,
			"review":      b.SessionRating.Student.Review,
			"sessionDate": b.SessionDate,
			"studentName": b.Student.Name,
		})
	}

	return c.JSON(fiber.Map{"success": true, "reviews": reviews})
}

func GetMentorAnalytics(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var totalSessions int64
	database.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.StatusCompleted).
		Count(&totalSessions)

	var totalEarnings float64
	database.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.StatusCompleted).
		Select("COALESCE(SUM(price), 0)").
		Row().Scan(&totalEarnings)

	type MonthlySessions struct {
		Month    string  `json:"month"`
		Sessions int64   `json:"sessions"`
		Earnings float64 `json:"earnings"`
	}
	var monthly []MonthlySessions
	database.DB.Model(&models.Booking{}).
		Select("TO_CHAR(session_date, 'YYYY-MM') as month, COUNT(*) as sessions, COALESCE(SUM(price), 0) as earnings").
		Where("mentor_id = ? AND status = ?", mentorID, models.StatusCompleted).
		Group("month").
		Order("month asc").
		Scan(&monthly)

	var avgRating struct{ Avg float64 }
	database.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND rating_student_rating IS NOT NULL", mentorID).
		Select("COALESCE(AVG(rating_student_rating), 0) as avg").
		Scan(&avgRating)

	return c.JSON(fiber.Map{
		"success":              true,
		"total_sessions":       totalSessions,
		"total_earnings":       totalEarnings,
		"average_rating":       avgRating.Avg,
		"monthly_session_data": monthly,
	})
}
