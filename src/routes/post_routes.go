package routes

import (
	"github.com/gofiber/fiber/v2"

	"socialnest/src/controllers"
)

func PostRoutes(app *fiber.App, limiter fiber.Handler) {
	post := app.Group("/api/posts")

	post.Get("/", controllers.GetPosts)
	post.Post("/", limiter, controllers.CreatePost)
	post.Get("/:id", controllers.GetPostByID)
	post.Put("/:id", controllers.UpdatePost)
	post.Patch("/:id", controllers.PatchPost)
	post.Delete("/:id", controllers.DeletePost)
}
