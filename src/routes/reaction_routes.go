package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

// ReactionRoutes sets up the reaction routes. Both operate on posts or
// comments via the targetType field in the body.
func ReactionRoutes(app *fiber.App) {
	reaction := app.Group("/api/reactions")

	reaction.Post("/", controllers.SetReaction)
	reaction.Delete("/", controllers.RemoveReaction)
}
