package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

func NotificationRoutes(app *fiber.App) {
	notification := app.Group("/api/notifications")

	notification.Get("/", controllers.GetNotifications)
	notification.Patch("/", controllers.PatchNotifications)
	notification.Delete("/", controllers.DeleteNotification)
}
