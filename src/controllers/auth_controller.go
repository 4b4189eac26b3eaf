package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"socialnest/src/lib"
	"socialnest/src/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and returns a signed token with the user profile.
// Unknown email and wrong password produce the same response so the endpoint
// does not leak which emails exist.
func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return lib.Fail(c, lib.BadRequest("Email and password are required"))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	// Emails are stored lowercased, so an exact match suffices. User input
	// never reaches the query as a pattern.
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := lib.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid email or password",
		})
	}

	token, err := lib.GenerateJWT(user.Id.Hex())
	if err != nil {
		return lib.Fail(c, lib.Internal("Internal server error"))
	}

	now := time.Now()
	if _, err := lib.DB.Collection("users").UpdateByID(ctx, user.Id, bson.M{
		"$set": bson.M{"lastLogin": now, "status": models.UserStatusActive, "updatedAt": now},
	}); err == nil {
		user.LastLogin = &now
		user.Status = models.UserStatusActive
	}

	user.Password = ""

	return lib.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}
