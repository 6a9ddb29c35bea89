package routes

import (
	"github.com/anjiri1684/mentor_hub/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth happens in-band after the upgrade: the first client frame must be
	// an auth message carrying the JWT.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
