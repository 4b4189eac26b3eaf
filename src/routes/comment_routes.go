package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

func CommentRoutes(app *fiber.App, limiter fiber.Handler) {
	comment := app.Group("/api/comments")

	comment.Get("/", controllers.GetComments)
	comment.Post("/", limiter, controllers.CreateComment)
	comment.Get("/:id", controllers.GetCommentByID)
	comment.Put("/:id", controllers.UpdateComment)
	comment.Patch("/:id", controllers.PatchComment)
	comment.Delete("/:id", controllers.DeleteComment)
}
