package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"socialnest/src/lib"
	"socialnest/src/middleware"
	"socialnest/src/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fiber.New(fiber.Config{
		AppName: "SocialNest",
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	lib.ConnectDB()
	lib.EnsureIndexes()

	rps, err := strconv.ParseFloat(lib.GetEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		rps = 5
	}
	burst, err := strconv.Atoi(lib.GetEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		burst = 10
	}
	limiter := middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(rps), burst))

	routes.AuthRoutes(app)
	routes.UserRoutes(app, limiter)
	routes.PostRoutes(app, limiter)
	routes.CommentRoutes(app, limiter)
	routes.ReactionRoutes(app)
	routes.FriendRoutes(app)
	routes.CommunityRoutes(app, limiter)
	routes.NotificationRoutes(app)

	app.Static("/", "./public")

	port := lib.GetEnv("PORT", "3000")

	fmt.Println("Server is running on http://localhost:" + port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
