package controllers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"socialnest/src/lib"
	"socialnest/src/models"
)

var noPassword = options.FindOne().SetProjection(bson.M{"password": 0})

// GetUsers returns users with pagination, search, filtering, and sorting
func GetUsers(c *fiber.Ctx) error {
	ctx, cancel := readCtx(c)
	defer cancel()

	page := lib.ParsePagination(c, 10)

	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	sortBy := c.Query("sortBy", "createdAt")
	sortOrder := -1
	if c.Query("sortOrder") == "asc" {
		sortOrder = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip).
		SetProjection(bson.M{"password": 0})

	userCollection := lib.DB.Collection("users")
	cursor, err := userCollection.Find(ctx, filter, opts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	total, err := userCollection.CountDocuments(ctx, filter)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	return lib.Paginated(c, users, lib.NewPagination(page, total))
}

// CreateUser creates a new user. The password, when provided, is stored as
// a bcrypt hash and never returned.
func CreateUser(c *fiber.Ctx) error {
	ctx, cancel := writeCtx(c)
	defer cancel()

	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if user.Name == "" || user.Email == "" {
		return lib.Fail(c, lib.BadRequest("Name and email are required"))
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if err := user.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), 11)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return lib.Fail(c, lib.Internal("Internal server error"))
		}
		user.Password = string(hashed)
	}

	now := time.Now()
	user.Id = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	ensureUserArrays(&user)

	userCollection := lib.DB.Collection("users")

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	if count > 0 {
		return lib.Fail(c, lib.Conflict("User with this email already exists"))
	}

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", "User with this email already exists"))
	}

	user.Password = ""
	return lib.Success(c, fiber.StatusCreated, user)
}

// GetUserByID returns a single user by ID, excluding the password
func GetUserByID(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Params("id"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	var user models.User
	err := lib.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}, noPassword).Decode(&user)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, user)
}

// UpdateUser replaces the writable fields of a user. Server-owned fields
// (id, timestamps, friend lists, counters) are never touched by this route.
func UpdateUser(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Params("id"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var body models.User
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if body.Name == "" || body.Email == "" {
		return lib.Fail(c, lib.BadRequest("Name and email are required"))
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Role == "" {
		body.Role = models.RoleUser
	}
	if body.Status == "" {
		body.Status = models.UserStatusActive
	}

	if err := body.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	userCollection := lib.DB.Collection("users")

	// Email conflict with any other user
	count, err := userCollection.CountDocuments(ctx, bson.M{
		"email": body.Email,
		"_id":   bson.M{"$ne": userID},
	})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	if count > 0 {
		return lib.Fail(c, lib.Conflict("Email already in use by another user"))
	}

	update := bson.M{
		"name":       body.Name,
		"email":      body.Email,
		"age":        body.Age,
		"phone":      body.Phone,
		"address":    body.Address,
		"role":       body.Role,
		"status":     body.Status,
		"avatar":     body.Avatar,
		"coverPhoto": body.CoverPhoto,
		"bio":        body.Bio,
		"location":   body.Location,
		"website":    body.Website,
		"updatedAt":  time.Now(),
	}
	if body.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), 11)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return lib.Fail(c, lib.Internal("Internal server error"))
		}
		update["password"] = string(hashed)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var updated models.User
	err = userCollection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", "Email already in use by another user"))
	}

	return lib.Success(c, fiber.StatusOK, updated)
}

type patchRequest struct {
	Action string                 `json:"action"`
	Fields map[string]interface{} `json:"fields"`
}

// userPatchFields are the fields a PATCH set action may touch
var userPatchFields = []string{
	"name", "age", "phone", "address", "role", "status",
	"avatar", "coverPhoto", "bio", "location", "website",
}

// PatchUser applies a discriminated partial update. Supported actions:
// "set" merges whitelisted fields, "login" stamps lastLogin. Bodies without
// a recognized action are rejected.
func PatchUser(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Params("id"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	update := bson.M{}
	switch req.Action {
	case "set":
		for _, field := range userPatchFields {
			if value, exists := req.Fields[field]; exists && value != nil {
				update[field] = value
			}
		}
		if len(update) == 0 {
			return lib.Fail(c, lib.BadRequest("No updatable fields provided"))
		}
		check := models.User{
			Name:   "placeholder",
			Email:  "placeholder@example.com",
			Role:   models.RoleUser,
			Status: models.UserStatusActive,
		}
		if apiErr := validatePatchFields(update, &check); apiErr != nil {
			return lib.Fail(c, apiErr)
		}
	case "login":
		update["lastLogin"] = time.Now()
	default:
		return lib.Fail(c, lib.BadRequest("Unknown or missing action"))
	}
	update["updatedAt"] = time.Now()

	ctx, cancel := writeCtx(c)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var updated models.User
	err := lib.DB.Collection("users").
		FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": update}, opts).
		Decode(&updated)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, updated)
}

// DeleteUser removes a user and cleans up every back-reference: their posts
// and comments (with dependents), their notifications, communities they
// administer, their membership and moderator entries, friend-list entries,
// and reaction entries across posts and comments.
func DeleteUser(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Params("id"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	var deleted models.User
	err := lib.DB.Collection("users").FindOneAndDelete(ctx, bson.M{"_id": userID}).Decode(&deleted)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	if err := cleanupUserReferences(ctx, userID); err != nil {
		log.Printf("Error cleaning up references for user %s: %v", userID.Hex(), err)
		return lib.Fail(c, lib.Internal("User deleted but reference cleanup failed"))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
		"data":    fiber.Map{},
	})
}

// cleanupUserReferences is the explicit ownership-cleanup step that runs
// after a user document is removed
func cleanupUserReferences(ctx context.Context, userID primitive.ObjectID) error {
	users := lib.DB.Collection("users")
	posts := lib.DB.Collection("posts")
	comments := lib.DB.Collection("comments")
	communities := lib.DB.Collection("communities")
	notifications := lib.DB.Collection("notifications")

	// Friend lists on every other user
	_, err := users.UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{
		"friends":                userID,
		"friendRequestsSent":     userID,
		"friendRequestsReceived": userID,
		"followers":              userID,
		"following":              userID,
	}})
	if err != nil {
		return err
	}

	// Authored posts, and the comments hanging off them
	cursor, err := posts.Find(ctx, bson.M{"author": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	var owned []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &owned); err != nil {
		return err
	}
	if len(owned) > 0 {
		postIDs := make([]primitive.ObjectID, len(owned))
		for i, p := range owned {
			postIDs[i] = p.ID
		}
		if _, err := comments.DeleteMany(ctx, bson.M{"post": bson.M{"$in": postIDs}}); err != nil {
			return err
		}
		if _, err := posts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": postIDs}}); err != nil {
			return err
		}
	}

	// Authored comments elsewhere. Tally them per post first so surviving
	// posts keep an accurate commentsCount; posts deleted above simply
	// match nothing.
	agg, err := comments.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$post", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return err
	}
	var authored []struct {
		Post primitive.ObjectID `bson:"_id"`
		N    int                `bson:"n"`
	}
	if err := agg.All(ctx, &authored); err != nil {
		return err
	}
	if _, err := comments.DeleteMany(ctx, bson.M{"author": userID}); err != nil {
		return err
	}
	for _, a := range authored {
		if _, err := posts.UpdateByID(ctx, a.Post,
			bson.M{"$inc": bson.M{"commentsCount": -a.N}}); err != nil {
			return err
		}
	}

	// Reaction entries held by the user anywhere
	reactionField := "reactions." + userID.Hex()
	unset := bson.M{"$unset": bson.M{reactionField: ""}}
	if _, err := posts.UpdateMany(ctx, bson.M{reactionField: bson.M{"$exists": true}}, unset); err != nil {
		return err
	}
	if _, err := comments.UpdateMany(ctx, bson.M{reactionField: bson.M{"$exists": true}}, unset); err != nil {
		return err
	}

	// Communities the user administered are removed outright; ownership
	// cannot be transferred through this contract
	if _, err := communities.DeleteMany(ctx, bson.M{"admin": userID}); err != nil {
		return err
	}

	// Membership and moderator entries, with memberCount recomputed in the
	// same pipeline update so the count never drifts from the members list
	memberPipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"members": bson.M{"$filter": bson.M{
				"input": "$members",
				"as":    "m",
				"cond":  bson.M{"$ne": bson.A{"$$m", userID}},
			}},
			"moderators": bson.M{"$filter": bson.M{
				"input": "$moderators",
				"as":    "m",
				"cond":  bson.M{"$ne": bson.A{"$$m", userID}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{"memberCount": bson.M{"$size": "$members"}}}},
	}
	memberFilter := bson.M{"$or": bson.A{
		bson.M{"members": userID},
		bson.M{"moderators": userID},
	}}
	if _, err := communities.UpdateMany(ctx, memberFilter, memberPipeline); err != nil {
		return err
	}

	// Notifications in either direction
	_, err = notifications.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"recipient": userID},
		bson.M{"sender": userID},
	}})
	return err
}

func ensureUserArrays(user *models.User) {
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequestsSent == nil {
		user.FriendRequestsSent = []primitive.ObjectID{}
	}
	if user.FriendRequestsReceived == nil {
		user.FriendRequestsReceived = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
}
