package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/anjiri1684/mentor_hub/notifications"
	"github.com/anjiri1684/mentor_hub/services"
	"github.com/anjiri1684/mentor_hub/utils"
	"github.com/anjiri1684/mentor_hub/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errSlotTaken = errors.New("this time slot is already booked")

type CreateBookingRequest struct {
	MentorID           string   `json:"mentor_id" validate:"required,uuid"`
	SessionTitle       string   `json:"session_title,omitempty"`
	SessionDescription *string  `json:"session_description,omitempty"`
	SessionType        string   `json:"session_type,omitempty" validate:"omitempty,oneof=one-on-one group workshop"`
	SessionDate        string   `json:"session_date" validate:"required"`
	SessionTime        string   `json:"session_time" validate:"required"`
	Duration           int      `json:"duration,omitempty" validate:"omitempty,min=15,max=480"`
	Timezone           string   `json:"timezone,omitempty"`
	Topics             []string `json:"topics,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	StudentNotes       *string  `json:"student_notes,omitempty"`
	IsRecurring        bool     `json:"is_recurring,omitempty"`
	RecurringPattern   *string  `json:"recurring_pattern,omitempty" validate:"omitempty,oneof=weekly biweekly monthly"`
}

func CreateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	mentorID, _ := uuid.Parse(req.MentorID)
	if studentID == mentorID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You cannot book a session with yourself"})
	}

	var mentor models.User
	if err := database.DB.First(&mentor, "id = ? AND role = ?", mentorID, models.RoleMentor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Mentor not found"})
	}

	sessionTime, err := services.NormalizeSessionTime(req.SessionTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid session time"})
	}

	sessionDate, err := parseSessionDate(req.SessionDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid session date"})
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid timezone"})
	}

	start, _ := services.SessionStart(sessionDate, sessionTime, loc)
	if !start.After(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Session date must be in the future"})
	}

	duration := req.Duration
	if duration == 0 {
		duration = 60
	}

	price := 0.0
	if mentor.HourlyRate != nil {
		price = *mentor.HourlyRate
	}
	paymentStatus := "paid"
	if price > 0 {
		paymentStatus = "pending"
	}

	sessionTitle := req.SessionTitle
	if sessionTitle == "" {
		sessionTitle = fmt.Sprintf("Mentoring Session with %s", mentor.Name)
	}

	var recurringPattern *string
	if req.IsRecurring {
		recurringPattern = req.RecurringPattern
	}

	booking := models.Booking{
		StudentID:          studentID,
		MentorID:           mentorID,
		SessionTitle:       sessionTitle,
		SessionDescription: req.SessionDescription,
		SessionType:        defaultString(req.SessionType, "one-on-one"),
		SessionDate:        sessionDate,
		SessionTime:        sessionTime,
		Duration:           duration,
		Timezone:           timezone,
		Topics:             req.Topics,
		Skills:             req.Skills,
		StudentNotes:       req.StudentNotes,
		Price:              price,
		Currency:           "USD",
		PaymentStatus:      paymentStatus,
		IsRecurring:        req.IsRecurring,
		RecurringPattern:   recurringPattern,
		Status:             models.StatusPending,
		RoomID:             utils.GenerateRoomID(),
		MeetingStatus:      models.MeetingNotStarted,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Locking the mentor row serializes concurrent creates for the same
		// mentor; the partial unique index on live slots is the backstop.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&mentor, "id = ?", mentorID).Error; err != nil {
			return err
		}

		var conflicting models.Booking
		err := tx.Where("mentor_id = ? AND session_date = ? AND session_time = ? AND status IN ?",
			mentorID, sessionDate, sessionTime, []models.BookingStatus{models.StatusPending, models.StatusConfirmed}).
			First(&conflicting).Error
		if err == nil {
			return errSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "This time slot is already booked"})
		}
		log.Printf("🔥 Create booking failed for student %s: %v", studentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while creating booking"})
	}

	database.DB.Preload("Student").Preload("Mentor").First(&booking, "id = ?", booking.ID)

	go notifications.Send(mentor.Name, mentor.Email,
		notifications.BookingRequestedEmail(booking.Student.Name, sessionDate, sessionTime))
	websocket.Broadcast <- &websocket.Event{
		Type:       websocket.EventBookingCreated,
		BookingID:  booking.ID,
		Status:     string(booking.Status),
		Message:    "New booking request",
		Recipients: []uuid.UUID{mentorID},
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	listType := c.Query("type", "all")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := database.DB.Model(&models.Booking{}).Where("student_id = ? OR mentor_id = ?", userID, userID)

	switch listType {
	case "upcoming":
		query = query.Where("session_date >= ? AND status IN ?", time.Now(),
			[]models.BookingStatus{models.StatusPending, models.StatusConfirmed})
	case "past":
		query = query.Where("status IN ?",
			[]models.BookingStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow})
	case "all":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid type filter"})
	}

	if status := c.Query("status"); status != "" {
		if !models.BookingStatus(status).IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid status"})
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while fetching bookings"})
	}

	var bookings []models.Booking
	if err := query.
		Preload("Student").Preload("Mentor").
		Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while fetching bookings"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
		"pagination": fiber.Map{
			"current":       page,
			"total":         int(math.Ceil(float64(total) / float64(limit))),
			"count":         len(bookings),
			"totalBookings": total,
		},
	})
}

func GetBookingByID(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	var booking models.Booking
	if err := database.DB.Preload("Student").Preload("Mentor").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	if booking.StudentID != userID && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized to view this booking"})
	}

	return c.JSON(fiber.Map{"success": true, "booking": booking})
}

type UpdateBookingStatusRequest struct {
	Status      string  `json:"status" validate:"required"`
	Reason      *string `json:"reason,omitempty"`
	MeetingLink *string `json:"meeting_link,omitempty" validate:"omitempty,url"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	newStatus := models.BookingStatus(req.Status)
	if !newStatus.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid status"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	isStudent := booking.StudentID == userID
	isMentor := booking.MentorID == userID
	if !isStudent && !isMentor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized to update this booking"})
	}

	if newStatus == models.StatusConfirmed && !isMentor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only mentors can confirm bookings"})
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Cannot change a %s booking to %s", booking.Status, newStatus),
		})
	}

	now := time.Now()
	switch newStatus {
	case models.StatusConfirmed:
		if req.MeetingLink != nil {
			booking.MeetingLink = req.MeetingLink
		}
	case models.StatusCancelled:
		booking.CancellationReason = req.Reason
		booking.CancelledBy = &userID
		booking.CancellationDate = &now
	case models.StatusCompleted:
		booking.SessionCompleted = true
		booking.SessionEndTime = &now
	}
	booking.Status = newStatus

	if err := database.DB.Save(&booking).Error; err != nil {
		log.Printf("🔥 Update booking status failed for %s: %v", bookingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while updating booking"})
	}

	database.DB.Preload("Student").Preload("Mentor").First(&booking, "id = ?", booking.ID)

	notifyStatusChange(&booking, userID, isMentor)

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Booking %s successfully", newStatus),
		"booking": booking,
	})
}

// notifyStatusChange fans out the side effects of a lifecycle move. All of
// it is best-effort: the transition has already been persisted.
func notifyStatusChange(booking *models.Booking, actorID uuid.UUID, actorIsMentor bool) {
	other := booking.Student
	if !actorIsMentor {
		other = booking.Mentor
	}

	switch booking.Status {
	case models.StatusConfirmed:
		go notifications.Send(booking.Student.Name, booking.Student.Email,
			notifications.BookingConfirmedEmail(booking.Mentor.Name, booking.SessionDate, booking.SessionTime))
	case models.StatusCancelled:
		go notifications.Send(other.Name, other.Email,
			notifications.BookingCancelledEmail(booking.SessionDate, booking.SessionTime))
	case models.StatusCompleted:
		go services.AwardKarma(booking.StudentID, services.KarmaActionSessionCompleted)
		go services.CheckAndGenerateCertificate(*booking)
	}

	websocket.Broadcast <- &websocket.Event{
		Type:       websocket.EventBookingStatusChanged,
		BookingID:  booking.ID,
		Status:     string(booking.Status),
		Recipients: []uuid.UUID{booking.StudentID, booking.MentorID},
	}

	log.Printf("Booking %s status changed to %s by user %s", booking.ID, booking.Status, actorID)
}

type SessionReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

func AddSessionReview(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	var req SessionReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Rating must be between 1 and 5"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	entry := models.RatingEntry{Rating: &req.Rating, Review: &req.Review}
	if err := booking.AddReview(userID, entry); err != nil {
		if errors.Is(err, models.ErrNotParticipant) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized to review this booking"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Can only review completed sessions"})
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while adding review"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Review added successfully", "booking": booking})
}

func GetBookingStats(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)

	partyColumn := "student_id"
	ratingColumn := "rating_student_rating"
	if role == models.RoleMentor {
		partyColumn = "mentor_id"
		ratingColumn = "rating_mentor_rating"
	}

	var stats struct {
		TotalBookings     int64
		CompletedSessions int64
		CancelledSessions int64
		UpcomingSessions  int64
		TotalHours        float64
		AverageRating     *float64
	}

	err := database.DB.Model(&models.Booking{}).
		Select(fmt.Sprintf(`
			COUNT(*) AS total_bookings,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_sessions,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_sessions,
			COUNT(*) FILTER (WHERE status IN ('pending','confirmed') AND session_date >= ?) AS upcoming_sessions,
			COALESCE(SUM(duration / 60.0) FILTER (WHERE status = 'completed'), 0) AS total_hours,
			AVG(%s) AS average_rating`, ratingColumn), time.Now()).
		Where(partyColumn+" = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while fetching stats"})
	}

	averageRating := 0.0
	if stats.AverageRating != nil {
		averageRating = *stats.AverageRating
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"totalBookings":     stats.TotalBookings,
			"completedSessions": stats.CompletedSessions,
			"cancelledSessions": stats.CancelledSessions,
			"upcomingSessions":  stats.UpcomingSessions,
			"totalHours":        stats.TotalHours,
			"averageRating":     averageRating,
		},
	})
}

func GetMentorBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var bookings []models.Booking
	if err := database.DB.
		Preload("Student").Preload("Mentor").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while fetching mentor bookings"})
	}

	return c.JSON(fiber.Map{"success": true, "bookings": bookings, "count": len(bookings)})
}

func DeleteBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	if err := booking.DeletableBy(userID); err != nil {
		if errors.Is(err, models.ErrNotParticipant) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized to delete this booking"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Can only delete pending bookings"})
	}

	if err := database.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error while deleting booking"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Booking deleted successfully"})
}

func parseSessionDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			// Only the calendar date matters; the clock lives in sessionTime.
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized session date %q", raw)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
