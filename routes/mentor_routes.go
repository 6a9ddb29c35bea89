package routes

import (
	"github.com/anjiri1684/mentor_hub/handlers"
	"github.com/anjiri1684/mentor_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	mentors := api.Group("/mentors", middleware.Protected())
	mentors.Get("", handlers.ListMentors)
	mentors.Get("/:mentorId", handlers.GetMentor)
	mentors.Get("/:mentorId/reviews", handlers.GetMentorReviews)

	mentor := api.Group("/mentor", middleware.Protected(), middleware.MentorRequired())
	mentor.Get("/analytics", handlers.GetMentorAnalytics)
}
