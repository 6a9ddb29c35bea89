package routes

import (
	"github.com/anjiri1684/mentor_hub/handlers"
	"github.com/anjiri1684/mentor_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Post("", handlers.CreateBooking)
	booking.Get("", handlers.GetMyBookings)
	booking.Get("/my-bookings", handlers.GetMyBookings)
	booking.Get("/stats", handlers.GetBookingStats)
	booking.Get("/:bookingId", handlers.GetBookingByID)
	booking.Patch("/:bookingId/status", handlers.UpdateBookingStatus)
	booking.Post("/:bookingId/review", handlers.AddSessionReview)
	booking.Delete("/:bookingId", handlers.DeleteBooking)
	booking.Get("/:bookingId/timing", handlers.GetSessionTiming)
	booking.Post("/:sessionId/join", handlers.JoinSession)
	booking.Patch("/:sessionId/meeting-status", handlers.UpdateMeetingStatus)

	mentorBooking := api.Group("/mentor/bookings", middleware.Protected(), middleware.MentorRequired())
	mentorBooking.Get("", handlers.GetMentorBookings)
}
