package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

// FriendRoutes sets up routes for sending, accepting, and rejecting friend
// requests, listing pending requests, listing friends, and unfriending
func FriendRoutes(app *fiber.App) {
	friend := app.Group("/api/friends")

	friend.Post("/request", controllers.SendFriendRequest)
	friend.Get("/requests", controllers.GetFriendRequests)
	friend.Post("/accept", controllers.AcceptFriendRequest)
	friend.Post("/reject", controllers.RejectFriendRequest)
	friend.Get("/", controllers.GetFriendsList)
	friend.Delete("/", controllers.Unfriend)
}
