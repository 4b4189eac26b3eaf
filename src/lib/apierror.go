package lib

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApiError is the single error taxonomy every controller maps onto.
// Status codes are fixed per class: 400 bad request / validation,
// 404 not found, 409 duplicate key, 500 unexpected.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func BadRequest(message string) *ApiError {
	return &ApiError{Status: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *ApiError {
	return &ApiError{Status: fiber.StatusNotFound, Message: message}
}

func Conflict(message string) *ApiError {
	return &ApiError{Status: fiber.StatusConflict, Message: message}
}

func Internal(message string) *ApiError {
	return &ApiError{Status: fiber.StatusInternalServerError, Message: message}
}

// FromMongo translates a driver error into the taxonomy. Raw driver error
// text is logged server-side and never surfaced to the client.
func FromMongo(err error, notFoundMsg, conflictMsg string) *ApiError {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound(notFoundMsg)
	}
	if mongo.IsDuplicateKeyError(err) {
		return Conflict(conflictMsg)
	}
	log.Printf("Unexpected database error: %v", err)
	return Internal("Internal server error")
}

// Fail writes a `{success: false, error}` envelope for an ApiError
func Fail(c *fiber.Ctx, err *ApiError) error {
	return c.Status(err.Status).JSON(fiber.Map{
		"success": false,
		"error":   err.Message,
	})
}
