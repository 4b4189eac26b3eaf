package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnest/src/lib"
	"socialnest/src/models"
)

// postDto is a post with its author reference populated and reaction
// counts computed per kind
type postDto struct {
	models.Post
	Author         *models.UserSummary         `json:"author"`
	ReactionCounts map[models.ReactionKind]int `json:"reactionCounts"`
	ReactionsCount int                         `json:"reactionsCount"`
}

func toPostDto(post models.Post, author *models.UserSummary) postDto {
	return postDto{
		Post:           post,
		Author:         author,
		ReactionCounts: post.Reactions.Counts(),
		ReactionsCount: post.Reactions.Total(),
	}
}

func toPostDtos(ctx context.Context, posts []models.Post) ([]postDto, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.Author)
	}
	authors, err := userSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]postDto, 0, len(posts))
	for _, p := range posts {
		var author *models.UserSummary
		if a, ok := authors[p.Author]; ok {
			author = &a
		}
		dtos = append(dtos, toPostDto(p, author))
	}
	return dtos, nil
}

// GetPosts returns posts with pagination, text search, filtering, and sorting
func GetPosts(c *fiber.Ctx) error {
	ctx, cancel := readCtx(c)
	defer cancel()

	page := lib.ParsePagination(c, 10)

	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if author := c.Query("author"); author != "" {
		authorID, err := primitive.ObjectIDFromHex(author)
		if err == nil {
			filter["author"] = authorID
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}

	sortBy := c.Query("sortBy", "createdAt")
	sortOrder := -1
	if c.Query("sortOrder") == "asc" {
		sortOrder = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip)

	postCollection := lib.DB.Collection("posts")
	cursor, err := postCollection.Find(ctx, filter, opts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	total, err := postCollection.CountDocuments(ctx, filter)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	dtos, err := toPostDtos(ctx, posts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	return lib.Paginated(c, dtos, lib.NewPagination(page, total))
}

// CreatePost creates a new post and returns it with the author populated
func CreatePost(c *fiber.Ctx) error {
	var post models.Post
	if err := c.BodyParser(&post); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if post.Title == "" || post.Content == "" || post.Author.IsZero() {
		return lib.Fail(c, lib.BadRequest("Title, content, and author are required"))
	}

	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Media.Type == "" {
		post.Media.Type = models.MediaTypeNone
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Reactions = models.Reactions{}
	post.Views = 0
	post.CommentsCount = 0
	post.SharesCount = 0

	if err := post.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	now := time.Now()
	post.Id = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := lib.DB.Collection("posts").InsertOne(ctx, post); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	// Keep the author's post counter in step
	if _, err := lib.DB.Collection("users").UpdateByID(ctx, post.Author,
		bson.M{"$inc": bson.M{"postsCount": 1}}); err != nil {
		log.Printf("Error incrementing postsCount for %s: %v", post.Author.Hex(), err)
	}

	return lib.Success(c, fiber.StatusCreated, toPostDto(post, userSummary(ctx, post.Author)))
}

// GetPostByID returns a single post and increments its view counter
func GetPostByID(c *fiber.Ctx) error {
	postID, apiErr := parseID(c.Params("id"), "post")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	var post models.Post
	err := lib.DB.Collection("posts").FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	// Views only ever move forward, one atomic increment per read
	if _, err := lib.DB.Collection("posts").UpdateByID(ctx, postID,
		bson.M{"$inc": bson.M{"views": 1}}); err != nil {
		log.Printf("Error incrementing views for post %s: %v", postID.Hex(), err)
	}

	return lib.Success(c, fiber.StatusOK, toPostDto(post, userSummary(ctx, post.Author)))
}

// UpdatePost replaces the writable fields of a post. The author, views,
// reactions, and timestamps are server-owned and cannot be replaced.
func UpdatePost(c *fiber.Ctx) error {
	postID, apiErr := parseID(c.Params("id"), "post")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var body models.Post
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if body.Title == "" || body.Content == "" {
		return lib.Fail(c, lib.BadRequest("Title and content are required"))
	}
	if body.Status == "" {
		body.Status = models.PostStatusDraft
	}
	if body.Media.Type == "" {
		body.Media.Type = models.MediaTypeNone
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}

	if err := body.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	update := bson.M{
		"title":         body.Title,
		"content":       body.Content,
		"tags":          body.Tags,
		"category":      body.Category,
		"status":        body.Status,
		"media":         body.Media,
		"featuredImage": body.FeaturedImage,
		"updatedAt":     time.Now(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	err := lib.DB.Collection("posts").
		FindOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{"$set": update}, opts).
		Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toPostDto(updated, userSummary(ctx, updated.Author)))
}

// postPatchFields are the fields a PATCH set action may touch
var postPatchFields = []string{
	"title", "content", "tags", "category", "status", "media", "featuredImage",
}

// PatchPost applies a discriminated partial update. Supported actions:
// "like" and "unlike" write the caller's reaction-map entry, "set" merges
// whitelisted fields. Bodies without a recognized action are rejected.
func PatchPost(c *fiber.Ctx) error {
	postID, apiErr := parseID(c.Params("id"), "post")
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
		fields := bson.M{}
		for _, field := range postPatchFields {
			if value, exists := req.Fields[field]; exists && value != nil {
				fields[field] = value
			}
		}
		if len(fields) == 0 {
			return lib.Fail(c, lib.BadRequest("No updatable fields provided"))
		}
		check := models.Post{
			Title:    "placeholder",
			Content:  "placeholder content",
			Category: "general",
			Status:   models.PostStatusDraft,
			Media:    models.Media{Type: models.MediaTypeNone},
		}
		if apiErr := validatePatchFields(fields, &check); apiErr != nil {
			return lib.Fail(c, apiErr)
		}
		fields["updatedAt"] = time.Now()
		update = bson.M{"$set": fields}
	default:
		return lib.Fail(c, lib.BadRequest("Unknown or missing action"))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	err := lib.DB.Collection("posts").
		FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).
		Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toPostDto(updated, userSummary(ctx, updated.Author)))
}

// DeletePost removes a post along with its comments and any notifications
// that reference it
func DeletePost(c *fiber.Ctx) error {
	postID, apiErr := parseID(c.Params("id"), "post")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	var deleted models.Post
	err := lib.DB.Collection("posts").FindOneAndDelete(ctx, bson.M{"_id": postID}).Decode(&deleted)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Post not found", ""))
	}

	if _, err := lib.DB.Collection("comments").DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		log.Printf("Error deleting comments for post %s: %v", postID.Hex(), err)
	}
	if _, err := lib.DB.Collection("notifications").DeleteMany(ctx, bson.M{"relatedPost": postID}); err != nil {
		log.Printf("Error deleting notifications for post %s: %v", postID.Hex(), err)
	}
	if _, err := lib.DB.Collection("users").UpdateByID(ctx, deleted.Author,
		bson.M{"$inc": bson.M{"postsCount": -1}}); err != nil {
		log.Printf("Error decrementing postsCount for %s: %v", deleted.Author.Hex(), err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
		"data":    fiber.Map{},
	})
}
