package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnest/src/lib"
	"socialnest/src/models"
)

// commentDto is a comment with its author and post references populated
type commentDto struct {
	models.Comment
	Author         *models.UserSummary         `json:"author"`
	Post           *postSummary                `json:"post"`
	ReactionCounts map[models.ReactionKind]int `json:"reactionCounts"`
	ReactionsCount int                         `json:"reactionsCount"`
}

func toCommentDto(ctx context.Context, comment models.Comment) commentDto {
	dto := commentDto{
		Comment:        comment,
		Author:         userSummary(ctx, comment.Author),
		ReactionCounts: comment.Reactions.Counts(),
		ReactionsCount: comment.Reactions.Total(),
	}

	var post postSummary
	err := lib.DB.Collection("posts").FindOne(ctx, bson.M{"_id": comment.Post},
		options.FindOne().SetProjection(bson.M{"title": 1})).Decode(&post)
	if err == nil {
		dto.Post = &post
	} else if err != mongo.ErrNoDocuments {
		log.Printf("Error populating post %s: %v", comment.Post.Hex(), err)
	}

	return dto
}

// GetComments returns comments, optionally filtered by post and parent.
// parentId=null selects root comments only.
func GetComments(c *fiber.Ctx) error {
	ctx, cancel := readCtx(c)
	defer cancel()

	page := lib.ParsePagination(c, 20)

	filter := bson.M{}
	if postID := c.Query("postId"); postID != "" {
		id, err := primitive.ObjectIDFromHex(postID)
		if err == nil {
			filter["post"] = id
		}
	}
	if parentID := c.Query("parentId"); parentID != "" {
		if parentID == "null" {
			filter["parentComment"] = nil
		} else if id, err := primitive.ObjectIDFromHex(parentID); err == nil {
			filter["parentComment"] = id
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip)

	commentCollection := lib.DB.Collection("comments")
	cursor, err := commentCollection.Find(ctx, filter, opts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	total, err := commentCollection.CountDocuments(ctx, filter)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	dtos := make([]commentDto, 0, len(comments))
	for _, comment := range comments {
		dtos = append(dtos, toCommentDto(ctx, comment))
	}

	return lib.Paginated(c, dtos, lib.NewPagination(page, total))
}

// CreateComment creates a new comment, optionally as a reply to another
func CreateComment(c *fiber.Ctx) error {
	var comment models.Comment
	if err := c.BodyParser(&comment); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if comment.Content == "" || comment.Author.IsZero() || comment.Post.IsZero() {
		return lib.Fail(c, lib.BadRequest("Content, author, and post are required"))
	}

	if err := comment.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	now := time.Now()
	comment.Id = primitive.NewObjectID()
	comment.Reactions = models.Reactions{}
	comment.IsEdited = false
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := lib.DB.Collection("comments").InsertOne(ctx, comment); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	// Keep the post's comment counter in step
	if _, err := lib.DB.Collection("posts").UpdateByID(ctx, comment.Post,
		bson.M{"$inc": bson.M{"commentsCount": 1}}); err != nil {
		log.Printf("Error incrementing commentsCount for post %s: %v", comment.Post.Hex(), err)
	}

	var post models.Post
	err := lib.DB.Collection("posts").FindOne(ctx, bson.M{"_id": comment.Post},
		options.FindOne().SetProjection(bson.M{"author": 1})).Decode(&post)
	if err == nil && post.Author != comment.Author {
		commentID := comment.Id
		createNotification(ctx, models.Notification{
			Recipient:      post.Author,
			Sender:         comment.Author,
			Type:           models.NotificationComment,
			RelatedPost:    &comment.Post,
			RelatedComment: &commentID,
			Message:        "commented on your post",
		})
	}

	return lib.Success(c, fiber.StatusCreated, toCommentDto(ctx, comment))
}

// GetCommentByID returns a single comment with populated references
func GetCommentByID(c *fiber.Ctx) error {
	commentID, apiErr := parseID(c.Params("id"), "comment")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	var comment models.Comment
	err := lib.DB.Collection("comments").FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toCommentDto(ctx, comment))
}

// UpdateComment updates a comment's content and marks it edited. No other
// field is writable through this route.
func UpdateComment(c *fiber.Ctx) error {
	commentID, apiErr := parseID(c.Params("id"), "comment")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.Content == "" {
		return lib.Fail(c, lib.BadRequest("Content is required"))
	}

	check := models.Comment{Content: body.Content}
	if err := check.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"content":   body.Content,
		"isEdited":  true,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Comment
	err := lib.DB.Collection("comments").
		FindOneAndUpdate(ctx, bson.M{"_id": commentID}, update, opts).
		Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toCommentDto(ctx, updated))
}

// PatchComment applies a discriminated partial update. Supported actions:
// "like", "unlike", and "set" (content only).
func PatchComment(c *fiber.Ctx) error {
	commentID, apiErr := parseID(c.Params("id"), "comment")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var req struct {
		Action string                 `json:"action"`
		UserID string                 `json:"userId"`
		Fields map[string]interface{} `json:"fields"`
	}
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	var update bson.M
	switch req.Action {
	case "like":
		userID, apiErr := parseID(req.UserID, "user")
		if apiErr != nil {
			return lib.Fail(c, apiErr)
		}
		update = bson.M{"$set": bson.M{
			"reactions." + userID.Hex(): models.ReactionLike,
			"updatedAt":                 time.Now(),
		}}
	case "unlike":
		userID, apiErr := parseID(req.UserID, "user")
		if apiErr != nil {
			return lib.Fail(c, apiErr)
		}
		update = bson.M{
			"$unset": bson.M{"reactions." + userID.Hex(): ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	case "set":
		content, ok := req.Fields["content"].(string)
		if !ok || content == "" {
			return lib.Fail(c, lib.BadRequest("No updatable fields provided"))
		}
		check := models.Comment{Content: content}
		if err := check.Validate(); err != nil {
			return lib.Fail(c, lib.BadRequest(err.Error()))
		}
		update = bson.M{"$set": bson.M{
			"content":   content,
			"isEdited":  true,
			"updatedAt": time.Now(),
		}}
	default:
		return lib.Fail(c, lib.BadRequest("Unknown or missing action"))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Comment
	err := lib.DB.Collection("comments").
		FindOneAndUpdate(ctx, bson.M{"_id": commentID}, update, opts).
		Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toCommentDto(ctx, updated))
}

// DeleteComment removes a comment, its direct replies, and notifications
// that reference it
func DeleteComment(c *fiber.Ctx) error {
	commentID, apiErr := parseID(c.Params("id"), "comment")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	var deleted models.Comment
	err := lib.DB.Collection("comments").FindOneAndDelete(ctx, bson.M{"_id": commentID}).Decode(&deleted)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Comment not found", ""))
	}

	replies, err := lib.DB.Collection("comments").DeleteMany(ctx, bson.M{"parentComment": commentID})
	if err != nil {
		log.Printf("Error deleting replies for comment %s: %v", commentID.Hex(), err)
	}
	if _, err := lib.DB.Collection("notifications").DeleteMany(ctx, bson.M{"relatedComment": commentID}); err != nil {
		log.Printf("Error deleting notifications for comment %s: %v", commentID.Hex(), err)
	}

	removed := int64(1)
	if replies != nil {
		removed += replies.DeletedCount
	}
	if _, err := lib.DB.Collection("posts").UpdateByID(ctx, deleted.Post,
		bson.M{"$inc": bson.M{"commentsCount": -removed}}); err != nil {
		log.Printf("Error decrementing commentsCount for post %s: %v", deleted.Post.Hex(), err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Comment deleted successfully",
		"data":    fiber.Map{},
	})
}
