package handlers

import (
	"log"
	"math"
	"time"

	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/anjiri1684/mentor_hub/services"
	"github.com/anjiri1684/mentor_hub/utils"
	"github.com/anjiri1684/mentor_hub/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JoinSession hands out the video room descriptor for a booking. The same
// timing evaluation the clients poll is enforced here, so a room is only
// issued for a confirmed session inside its join window.
func JoinSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid session ID"})
	}

	var booking models.Booking
	if err := database.DB.Preload("Student").Preload("Mentor").First(&booking, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Session not found"})
	}

	if booking.StudentID != userID && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You are not authorized to join this session"})
	}

	timing := services.EvaluateSessionTiming(booking.SessionDate, booking.SessionTime, booking.Duration,
		booking.Status, time.Now(), bookingLocation(&booking))
	if !timing.CanJoin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": timing.Message,
			"timing":  timing,
		})
	}

	if ensureRoomID(&booking) {
		log.Printf("🆕 Generated room ID %s for session %s", booking.RoomID, sessionID)
	}
	if booking.MeetingStatus == models.MeetingNotStarted {
		booking.MeetingStatus = models.MeetingWaiting
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to join session"})
	}

	userRole := models.RoleMentor
	if booking.StudentID == userID {
		userRole = models.RoleStudent
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"roomId":        booking.RoomID,
			"sessionId":     booking.ID,
			"sessionTitle":  booking.SessionTitle,
			"mentor":        booking.Mentor,
			"student":       booking.Student,
			"duration":      booking.Duration,
			"meetingStatus": booking.MeetingStatus,
			"userRole":      userRole,
		},
	})
}

type UpdateMeetingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateMeetingStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid session ID"})
	}

	var req UpdateMeetingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	newStatus := models.MeetingStatus(req.Status)
	if !newStatus.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid meeting status"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Session not found"})
	}

	if booking.StudentID != userID && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized"})
	}

	if !booking.MeetingStatus.CanAdvanceTo(newStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Meeting status can only move forward",
		})
	}

	now := time.Now()
	booking.MeetingStatus = newStatus
	switch newStatus {
	case models.MeetingEnded:
		booking.SessionEndTime = &now
		if booking.SessionStartTime != nil {
			actual := actualDurationMinutes(*booking.SessionStartTime, now)
			booking.ActualDuration = &actual
		}
	case models.MeetingActive:
		if booking.SessionStartTime == nil {
			booking.SessionStartTime = &now
		}
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update meeting status"})
	}

	websocket.Broadcast <- &websocket.Event{
		Type:          websocket.EventMeetingStatusChanged,
		BookingID:     booking.ID,
		MeetingStatus: string(booking.MeetingStatus),
		Recipients:    []uuid.UUID{booking.StudentID, booking.MentorID},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"meetingStatus":    booking.MeetingStatus,
			"sessionStartTime": booking.SessionStartTime,
			"sessionEndTime":   booking.SessionEndTime,
			"actualDuration":   booking.ActualDuration,
		},
	})
}

// GetSessionTiming exposes the shared countdown/join-eligibility
// evaluation so clients poll the exact logic the join endpoint enforces.
func GetSessionTiming(c *fiber.Ctx) error {
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

	if booking.StudentID != userID && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not authorized to view this booking"})
	}

	timing := services.EvaluateSessionTiming(booking.SessionDate, booking.SessionTime, booking.Duration,
		booking.Status, time.Now(), bookingLocation(&booking))

	return c.JSON(fiber.Map{"success": true, "timing": timing})
}

// ensureRoomID backfills rows created before rooms were allocated at
// booking time. Reports whether a new ID was minted; an existing room is
// never replaced, so repeated joins hand out the same descriptor.
func ensureRoomID(booking *models.Booking) bool {
	if booking.RoomID != "" {
		return false
	}
	booking.RoomID = utils.GenerateRoomID()
	return true
}

// actualDurationMinutes is the billed call length, rounded to the
// nearest whole minute.
func actualDurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

func bookingLocation(booking *models.Booking) *time.Location {
	loc, err := time.LoadLocation(booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
