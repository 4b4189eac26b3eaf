package lib

import (
	"math"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// MaxPageLimit is the upper bound for the limit query parameter. Every list
// route goes through ParsePagination, so the clamp applies uniformly.
const MaxPageLimit = 100

// GetEnv reads an environment variable with a fallback default
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Pagination describes one page of a list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// PageParams holds the parsed page/limit/skip triple for a list query
type PageParams struct {
	Page  int
	Limit int
	Skip  int64
}

// ParsePagination reads page and limit from the query string. Page defaults
// to 1, limit to defaultLimit, and limit is clamped to MaxPageLimit.
func ParsePagination(c *fiber.Ctx, defaultLimit int) PageParams {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return PageParams{
		Page:  page,
		Limit: limit,
		Skip:  int64(page-1) * int64(limit),
	}
}

// NewPagination builds the pagination block for a list response
func NewPagination(p PageParams, total int64) Pagination {
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
		HasMore:    int64(p.Page)*int64(p.Limit) < total,
	}
}

// Success writes a `{success: true, data}` envelope
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Message writes a `{success: true, message}` envelope
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Paginated writes a list envelope with the pagination block attached
func Paginated(c *fiber.Ctx, data interface{}, p Pagination) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": p,
	})
}

// GenerateJWT signs a token for the given user ID
func GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(GetEnv("JWT_SECRET", "fallback-secret-key")))
}

// VerifyJWT parses and validates a token, returning its claims
func VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	secret := GetEnv("JWT_SECRET", "fallback-secret-key")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
}
