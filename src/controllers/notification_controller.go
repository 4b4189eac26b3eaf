package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnest/src/lib"
	"socialnest/src/models"
)

// notificationDto carries the populated sender and related post alongside
// the stored document
type notificationDto struct {
	models.Notification
	Sender      *models.UserSummary `json:"sender"`
	RelatedPost *postSummary        `json:"relatedPost,omitempty"`
}

// GetNotifications lists a user's notifications, newest first, together
// with the unread count for badge rendering
func GetNotifications(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Query("userId"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	filter := bson.M{"recipient": userID}
	if c.Query("unreadOnly") == "true" {
		filter["read"] = false
	}

	limit := int64(c.QueryInt("limit", 50))
	if limit < 1 || limit > lib.MaxPageLimit {
		limit = 50
	}

	collection := lib.DB.Collection("notifications")

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	unreadCount, err := collection.CountDocuments(ctx, bson.M{"recipient": userID, "read": false})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	postIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.Sender)
		if n.RelatedPost != nil {
			postIDs = append(postIDs, *n.RelatedPost)
		}
	}

	senders, err := userSummaries(ctx, senderIDs)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	posts, err := postSummaries(ctx, postIDs)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	dtos := make([]notificationDto, 0, len(notifications))
	for _, n := range notifications {
		dto := notificationDto{Notification: n}
		if s, ok := senders[n.Sender]; ok {
			dto.Sender = &s
		}
		if n.RelatedPost != nil {
			if p, ok := posts[*n.RelatedPost]; ok {
				dto.RelatedPost = &p
			}
		}
		dtos = append(dtos, dto)
	}

	return lib.Success(c, fiber.StatusOK, fiber.Map{
		"notifications": dtos,
		"unreadCount":   unreadCount,
	})
}

type notificationPatchBody struct {
	Action         string `json:"action"`
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
}

// PatchNotifications marks one notification read ("read") or every
// notification for a user read ("read_all")
func PatchNotifications(c *fiber.Ctx) error {
	var body notificationPatchBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	collection := lib.DB.Collection("notifications")

	switch body.Action {
	case "read":
		if body.NotificationID == "" {
			return lib.Fail(c, lib.BadRequest("notificationId is required"))
		}
		notificationID, apiErr := parseID(body.NotificationID, "notification")
		if apiErr != nil {
			return lib.Fail(c, apiErr)
		}

		result, err := collection.UpdateByID(ctx, notificationID, bson.M{
			"$set": bson.M{"read": true, "updatedAt": time.Now()},
		})
		if err != nil {
			return lib.Fail(c, lib.FromMongo(err, "", ""))
		}
		if result.MatchedCount == 0 {
			return lib.Fail(c, lib.NotFound("Notification not found"))
		}
		return lib.Message(c, "Notification marked as read")
	case "read_all":
		if body.UserID == "" {
			return lib.Fail(c, lib.BadRequest("userId is required"))
		}
		userID, apiErr := parseID(body.UserID, "user")
		if apiErr != nil {
			return lib.Fail(c, apiErr)
		}

		result, err := collection.UpdateMany(ctx,
			bson.M{"recipient": userID, "read": false},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}})
		if err != nil {
			return lib.Fail(c, lib.FromMongo(err, "", ""))
		}
		return lib.Success(c, fiber.StatusOK, fiber.Map{
			"message":  "All notifications marked as read",
			"modified": result.ModifiedCount,
		})
	default:
		return lib.Fail(c, lib.BadRequest("Unknown or missing action"))
	}
}

// DeleteNotification removes a single notification, addressed in the body
func DeleteNotification(c *fiber.Ctx) error {
	var body notificationPatchBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.NotificationID == "" {
		return lib.Fail(c, lib.BadRequest("notificationId is required"))
	}
	notificationID, apiErr := parseID(body.NotificationID, "notification")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	err := lib.DB.Collection("notifications").FindOneAndDelete(ctx,
		bson.M{"_id": notificationID}).Decode(&models.Notification{})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Notification not found", ""))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notification deleted successfully",
		"data":    fiber.Map{},
	})
}
