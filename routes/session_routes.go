package routes

import (
	"github.com/anjiri1684/mentor_hub/handlers"
	"github.com/anjiri1684/mentor_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Alias of the /bookings join and meeting-status endpoints.
	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Post("/:sessionId/join", handlers.JoinSession)
	sessions.Patch("/:sessionId/meeting-status", handlers.UpdateMeetingStatus)
}
