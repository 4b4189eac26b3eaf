package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnest/src/lib"
	"socialnest/src/models"
)

type reactionRequest struct {
	UserID       string `json:"userId"`
	TargetID     string `json:"targetId"`
	TargetType   string `json:"targetType"`
	ReactionType string `json:"reactionType"`
}

func (r *reactionRequest) collection() string {
	if r.TargetType == "post" {
		return "posts"
	}
	return "comments"
}

func (r *reactionRequest) validTarget() bool {
	return r.TargetType == "post" || r.TargetType == "comment"
}

// SetReaction adds or switches a reaction. The reaction map holds one entry
// per user, so setting a kind is a single atomic write: switching kinds can
// never leave the user counted twice or not at all, and re-selecting the
// same kind is a no-op.
func SetReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if req.UserID == "" || req.TargetID == "" || req.TargetType == "" || req.ReactionType == "" {
		return lib.Fail(c, lib.BadRequest("userId, targetId, targetType, and reactionType are required"))
	}
	if !req.validTarget() {
		return lib.Fail(c, lib.BadRequest("targetType must be post or comment"))
	}

	kind := models.ReactionKind(req.ReactionType)
	if !kind.Valid() {
		return lib.Fail(c, lib.BadRequest("Invalid reaction type"))
	}

	userID, apiErr := parseID(req.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	targetID, apiErr := parseID(req.TargetID, req.TargetType)
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	collection := lib.DB.Collection(req.collection())

	update := bson.M{"$set": bson.M{
		"reactions." + userID.Hex(): kind,
		"updatedAt":                 time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if req.TargetType == "post" {
		var updated models.Post
		if err := collection.FindOneAndUpdate(ctx, bson.M{"_id": targetID}, update, opts).Decode(&updated); err != nil {
			return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
		}
		notifyReaction(ctx, updated.Author, userID, kind, req.TargetType, targetID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Reaction added successfully",
			"data":    toPostDto(updated, userSummary(ctx, updated.Author)),
		})
	}

	var updated models.Comment
	if err := collection.FindOneAndUpdate(ctx, bson.M{"_id": targetID}, update, opts).Decode(&updated); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}
	notifyReaction(ctx, updated.Author, userID, kind, req.TargetType, targetID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Reaction added successfully",
		"data":    toCommentDto(ctx, updated),
	})
}

// RemoveReaction clears the user's reaction on a target. A single atomic
// unset; removing a reaction that does not exist is a no-op.
func RemoveReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if req.UserID == "" || req.TargetID == "" || req.TargetType == "" {
		return lib.Fail(c, lib.BadRequest("userId, targetId, and targetType are required"))
	}
	if !req.validTarget() {
		return lib.Fail(c, lib.BadRequest("targetType must be post or comment"))
	}

	userID, apiErr := parseID(req.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	targetID, apiErr := parseID(req.TargetID, req.TargetType)
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	update := bson.M{
		"$unset": bson.M{"reactions." + userID.Hex(): ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}

	result, err := lib.DB.Collection(req.collection()).UpdateByID(ctx, targetID, update)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	if result.MatchedCount == 0 {
		return lib.Fail(c, lib.NotFound(req.TargetType+" not found"))
	}

	return lib.Message(c, "Reaction removed successfully")
}

// notifyReaction fans out a notification to the target's author, unless the
// user reacted to their own content
func notifyReaction(ctx context.Context, author, sender primitive.ObjectID, kind models.ReactionKind, targetType string, targetID primitive.ObjectID) {
	if author == sender || author.IsZero() {
		return
	}

	n := models.Notification{
		Recipient: author,
		Sender:    sender,
		Type:      models.NotificationReaction,
		Message:   "reacted " + string(kind) + " to your " + targetType,
		Read:      false,
	}
	if targetType == "post" {
		n.RelatedPost = &targetID
	} else {
		n.RelatedComment = &targetID
	}

	createNotification(ctx, n)
}
