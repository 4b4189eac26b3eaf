package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

func CommunityRoutes(app *fiber.App, limiter fiber.Handler) {
	community := app.Group("/api/communities")

	community.Get("/", controllers.GetCommunities)
	community.Post("/", limiter, controllers.CreateCommunity)
	community.Get("/:id", controllers.GetCommunityByID)
	community.Patch("/:id", controllers.PatchCommunity)
	community.Delete("/:id", controllers.DeleteCommunity)
	community.Post("/:id/join", controllers.JoinCommunity)
	community.Post("/:id/leave", controllers.LeaveCommunity)
}
