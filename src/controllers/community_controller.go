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

// communityDto replaces the admin, moderator, and member references with
// populated user summaries
type communityDto struct {
	models.Community
	Admin      *models.UserSummary  `json:"admin"`
	Moderators []models.UserSummary `json:"moderators"`
	Members    []models.UserSummary `json:"members"`
}

func toCommunityDto(ctx context.Context, community models.Community) communityDto {
	ids := make([]primitive.ObjectID, 0, 1+len(community.Moderators)+len(community.Members))
	ids = append(ids, community.Admin)
	ids = append(ids, community.Moderators...)
	ids = append(ids, community.Members...)

	dto := communityDto{
		Community:  community,
		Moderators: []models.UserSummary{},
		Members:    []models.UserSummary{},
	}

	summaries, err := userSummaries(ctx, ids)
	if err != nil {
		return dto
	}
	if s, ok := summaries[community.Admin]; ok {
		dto.Admin = &s
	}
	for _, id := range community.Moderators {
		if s, ok := summaries[id]; ok {
			dto.Moderators = append(dto.Moderators, s)
		}
	}
	for _, id := range community.Members {
		if s, ok := summaries[id]; ok {
			dto.Members = append(dto.Members, s)
		}
	}
	return dto
}

// GetCommunities lists communities with filtering, search, and pagination
func GetCommunities(c *fiber.Ctx) error {
	ctx, cancel := readCtx(c)
	defer cancel()

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if privacy := c.Query("privacy"); privacy != "" {
		filter["privacy"] = privacy
	}
	if search := c.Query("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	page := lib.ParsePagination(c, 10)

	sortField := c.Query("sortBy", "createdAt")
	sortOrder := -1
	if c.Query("sortOrder") == "asc" {
		sortOrder = 1
	}

	collection := lib.DB.Collection("communities")

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(page.Skip).
		SetLimit(int64(page.Limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	defer cursor.Close(ctx)

	communities := []models.Community{}
	if err := cursor.All(ctx, &communities); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	return lib.Paginated(c, communities, lib.NewPagination(page, total))
}

// CreateCommunity creates a community with its admin seeded as the first
// member. The unique index on name maps duplicates to a conflict.
func CreateCommunity(c *fiber.Ctx) error {
	var community models.Community
	if err := c.BodyParser(&community); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	if community.Name == "" || community.Description == "" || community.Admin.IsZero() {
		return lib.Fail(c, lib.BadRequest("Name, description, and admin are required"))
	}

	if community.Privacy == "" {
		community.Privacy = models.PrivacyPublic
	}
	if community.Category == "" {
		community.Category = "other"
	}

	if err := community.Validate(); err != nil {
		return lib.Fail(c, lib.BadRequest(err.Error()))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	err := lib.DB.Collection("users").FindOne(ctx, bson.M{"_id": community.Admin}, noPassword).Decode(&models.User{})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Admin user not found", ""))
	}

	now := time.Now()
	community.Id = primitive.NewObjectID()
	community.Moderators = []primitive.ObjectID{}
	community.Members = []primitive.ObjectID{community.Admin}
	community.Posts = []primitive.ObjectID{}
	if community.Rules == nil {
		community.Rules = []string{}
	}
	community.MemberCount = 1
	community.PostCount = 0
	community.CreatedAt = now
	community.UpdatedAt = now

	if _, err := lib.DB.Collection("communities").InsertOne(ctx, community); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", "A community with this name already exists"))
	}

	return lib.Success(c, fiber.StatusCreated, toCommunityDto(ctx, community))
}

// GetCommunityByID returns a single community with populated references
func GetCommunityByID(c *fiber.Ctx) error {
	communityID, apiErr := parseID(c.Params("id"), "community")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	var community models.Community
	err := lib.DB.Collection("communities").FindOne(ctx, bson.M{"_id": communityID}).Decode(&community)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Community not found", ""))
	}

	return lib.Success(c, fiber.StatusOK, toCommunityDto(ctx, community))
}

// communityPatchFields is the whitelist for partial community updates
var communityPatchFields = map[string]bool{
	"name":        true,
	"description": true,
	"category":    true,
	"privacy":     true,
	"coverImage":  true,
	"rules":       true,
}

// PatchCommunity applies a partial update. The action discriminator is
// required so a request that forgets it fails loudly instead of being
// guessed at.
func PatchCommunity(c *fiber.Ctx) error {
	communityID, apiErr := parseID(c.Params("id"), "community")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}

	switch req.Action {
	case "set":
		set := bson.M{}
		for field, value := range req.Fields {
			if !communityPatchFields[field] {
				return lib.Fail(c, lib.BadRequest("Field cannot be updated: "+field))
			}
			set[field] = value
		}
		if len(set) == 0 {
			return lib.Fail(c, lib.BadRequest("No fields to update"))
		}
		check := models.Community{
			Name:        "placeholder",
			Description: "placeholder",
			Category:    "other",
			Privacy:     models.PrivacyPublic,
		}
		if apiErr := validatePatchFields(set, &check); apiErr != nil {
			return lib.Fail(c, apiErr)
		}
		set["updatedAt"] = time.Now()

		ctx, cancel := writeCtx(c)
		defer cancel()

		var updated models.Community
		err := lib.DB.Collection("communities").FindOneAndUpdate(ctx,
			bson.M{"_id": communityID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return lib.Fail(c, lib.FromMongo(err, "Community not found", "A community with this name already exists"))
		}

		return lib.Success(c, fiber.StatusOK, toCommunityDto(ctx, updated))
	default:
		return lib.Fail(c, lib.BadRequest("Unknown or missing action"))
	}
}

// DeleteCommunity removes a community and its membership state
func DeleteCommunity(c *fiber.Ctx) error {
	communityID, apiErr := parseID(c.Params("id"), "community")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	err := lib.DB.Collection("communities").FindOneAndDelete(ctx, bson.M{"_id": communityID}).Decode(&models.Community{})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Community not found", ""))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Community deleted successfully",
		"data":    fiber.Map{},
	})
}

type membershipBody struct {
	UserID string `json:"userId"`
}

// JoinCommunity adds a user to the member list. The filter excludes
// communities the user already belongs to, so the $addToSet and the
// memberCount increment land together exactly once.
func JoinCommunity(c *fiber.Ctx) error {
	communityID, apiErr := parseID(c.Params("id"), "community")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var body membershipBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.UserID == "" {
		return lib.Fail(c, lib.BadRequest("userId is required"))
	}
	userID, apiErr := parseID(body.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	err := lib.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}, noPassword).Decode(&models.User{})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	result, err := lib.DB.Collection("communities").UpdateOne(ctx,
		bson.M{"_id": communityID, "members": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"members": userID},
			"$inc":      bson.M{"memberCount": 1},
			"$set":      bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	if result.MatchedCount == 0 {
		count, countErr := lib.DB.Collection("communities").CountDocuments(ctx, bson.M{"_id": communityID})
		if countErr != nil {
			return lib.Fail(c, lib.FromMongo(countErr, "", ""))
		}
		if count == 0 {
			return lib.Fail(c, lib.NotFound("Community not found"))
		}
		return lib.Fail(c, lib.BadRequest("User is already a member of this community"))
	}

	return lib.Message(c, "Joined community successfully")
}

// LeaveCommunity removes a user from the member list. The admin cannot
// leave; ownership has to move first.
func LeaveCommunity(c *fiber.Ctx) error {
	communityID, apiErr := parseID(c.Params("id"), "community")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	var body membershipBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.UserID == "" {
		return lib.Fail(c, lib.BadRequest("userId is required"))
	}
	userID, apiErr := parseID(body.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	var community models.Community
	err := lib.DB.Collection("communities").FindOne(ctx, bson.M{"_id": communityID},
		options.FindOne().SetProjection(bson.M{"admin": 1})).Decode(&community)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Community not found", ""))
	}
	if community.Admin == userID {
		return lib.Fail(c, lib.BadRequest("Admin cannot leave the community. Transfer ownership first."))
	}

	result, err := lib.DB.Collection("communities").UpdateOne(ctx,
		bson.M{"_id": communityID, "members": userID},
		bson.M{
			"$pull": bson.M{"members": userID, "moderators": userID},
			"$inc":  bson.M{"memberCount": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}
	if result.MatchedCount == 0 {
		return lib.Fail(c, lib.BadRequest("User is not a member of this community"))
	}

	return lib.Message(c, "Left community successfully")
}
