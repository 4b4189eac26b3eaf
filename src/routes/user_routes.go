package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

// UserRoutes sets up the user CRUD routes. Account creation goes through
// the rate limiter.
func UserRoutes(app *fiber.App, limiter fiber.Handler) {
	user := app.Group("/api/users")

	user.Get("/", controllers.GetUsers)
	user.Post("/", limiter, controllers.CreateUser)
	user.Get("/:id", controllers.GetUserByID)
	user.Put("/:id", controllers.UpdateUser)
	user.Patch("/:id", controllers.PatchUser)
	user.Delete("/:id", controllers.DeleteUser)
}
