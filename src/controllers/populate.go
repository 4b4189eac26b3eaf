package controllers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnest/src/lib"
	"socialnest/src/models"
)

// readCtx returns the context used for read operations
func readCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), 10*time.Second)
}

// writeCtx returns the context used for write operations
func writeCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), 30*time.Second)
}

// validatePatchFields runs the model validators over a partial update. The
// whitelisted fields are decoded into a baseline document that passes
// validation on its own, so whatever fails afterwards failed because of the
// patch. Partial updates obey the same constraints as a create.
func validatePatchFields(fields bson.M, check interface{ Validate() error }) *lib.ApiError {
	raw, err := json.Marshal(fields)
	if err != nil {
		return lib.BadRequest("Invalid request body")
	}
	if err := json.Unmarshal(raw, check); err != nil {
		return lib.BadRequest("Invalid field value")
	}
	if err := check.Validate(); err != nil {
		return lib.BadRequest(err.Error())
	}
	return nil
}

// parseID validates an ObjectID in hex form
func parseID(hex, what string) (primitive.ObjectID, *lib.ApiError) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, lib.BadRequest("Invalid " + what + " ID format")
	}
	return id, nil
}

// userSummaries resolves a set of user references into their summary fields,
// keyed by ID. Missing users are simply absent from the result.
func userSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"name": 1, "email": 1, "avatar": 1, "bio": 1,
	})
	cursor, err := lib.DB.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = u
	}
	return summaries, nil
}

// userSummary resolves a single user reference, or nil when it dangles
func userSummary(ctx context.Context, id primitive.ObjectID) *models.UserSummary {
	summaries, err := userSummaries(ctx, []primitive.ObjectID{id})
	if err != nil {
		log.Printf("Error populating user %s: %v", id.Hex(), err)
		return nil
	}
	if u, ok := summaries[id]; ok {
		return &u
	}
	return nil
}

// postSummary is the projection used when a post reference is populated
type postSummary struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Title string             `json:"title" bson:"title"`
}

// postSummaries resolves post references into their titles, keyed by ID
func postSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]postSummary, error) {
	summaries := make(map[primitive.ObjectID]postSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{"title": 1})
	cursor, err := lib.DB.Collection("posts").Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []postSummary
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		summaries[p.ID] = p
	}
	return summaries, nil
}

// createNotification inserts a notification best-effort. Fan-out failures
// are logged and never fail the request that triggered them.
func createNotification(ctx context.Context, n models.Notification) {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := n.Validate(); err != nil {
		log.Printf("Skipping invalid notification: %v", err)
		return
	}
	if _, err := lib.DB.Collection("notifications").InsertOne(ctx, n); err != nil {
		log.Printf("Error creating notification: %v", err)
	}
}
