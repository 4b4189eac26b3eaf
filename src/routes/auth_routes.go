package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

func AuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/login", controllers.Login)
}
