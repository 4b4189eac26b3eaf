package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"socialnest/src/lib"
	"socialnest/src/models"
)

type friendRequestBody struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

type friendActionBody struct {
	UserID      string `json:"userId"`
	RequesterID string `json:"requesterId"`
}

type unfriendBody struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

// withTransaction runs fn inside a multi-document transaction so that the
// paired writes on both user documents commit or roll back together.
func withTransaction(c *fiber.Ctx, fn func(sc mongo.SessionContext) error) error {
	ctx, cancel := writeCtx(c)
	defer cancel()

	session, err := lib.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// SendFriendRequest records a pending request on both sides: the sender's
// sent list and the receiver's received list, in one transaction.
func SendFriendRequest(c *fiber.Ctx) error {
	var body friendRequestBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.SenderID == "" || body.ReceiverID == "" {
		return lib.Fail(c, lib.BadRequest("senderId and receiverId are required"))
	}
	if body.SenderID == body.ReceiverID {
		return lib.Fail(c, lib.BadRequest("Cannot send a friend request to yourself"))
	}

	senderID, apiErr := parseID(body.SenderID, "sender")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	receiverID, apiErr := parseID(body.ReceiverID, "receiver")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	users := lib.DB.Collection("users")

	var sender models.User
	if err := users.FindOne(ctx, bson.M{"_id": senderID}, noPassword).Decode(&sender); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Sender not found", ""))
	}
	if err := users.FindOne(ctx, bson.M{"_id": receiverID}, noPassword).Decode(&models.User{}); err != nil {
		return lib.Fail(c, lib.FromMongo(err, "Receiver not found", ""))
	}

	for _, id := range sender.Friends {
		if id == receiverID {
			return lib.Fail(c, lib.BadRequest("Users are already friends"))
		}
	}
	for _, id := range sender.FriendRequestsSent {
		if id == receiverID {
			return lib.Fail(c, lib.BadRequest("Friend request already sent"))
		}
	}
	for _, id := range sender.FriendRequestsReceived {
		if id == receiverID {
			return lib.Fail(c, lib.BadRequest("This user has already sent you a friend request"))
		}
	}

	err := withTransaction(c, func(sc mongo.SessionContext) error {
		now := time.Now()
		if _, err := users.UpdateByID(sc, senderID, bson.M{
			"$addToSet": bson.M{"friendRequestsSent": receiverID},
			"$set":      bson.M{"updatedAt": now},
		}); err != nil {
			return err
		}
		_, err := users.UpdateByID(sc, receiverID, bson.M{
			"$addToSet": bson.M{"friendRequestsReceived": senderID},
			"$set":      bson.M{"updatedAt": now},
		})
		return err
	})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	createNotification(ctx, models.Notification{
		Recipient: receiverID,
		Sender:    senderID,
		Type:      models.NotificationFriendRequest,
		Message:   sender.Name + " sent you a friend request",
	})

	return lib.Message(c, "Friend request sent successfully")
}

// GetFriendRequests lists a user's pending requests, received by default
func GetFriendRequests(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Query("userId"), "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	direction := c.Query("type", "received")
	if direction != "received" && direction != "sent" {
		return lib.Fail(c, lib.BadRequest("type must be received or sent"))
	}

	ctx, cancel := readCtx(c)
	defer cancel()

	var user models.User
	err := lib.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}, noPassword).Decode(&user)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "User not found", ""))
	}

	ids := user.FriendRequestsReceived
	if direction == "sent" {
		ids = user.FriendRequestsSent
	}

	summaries, err := userSummaries(ctx, ids)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	requests := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := summaries[id]; ok {
			requests = append(requests, s)
		}
	}

	return lib.Success(c, fiber.StatusOK, fiber.Map{
		"type":     direction,
		"requests": requests,
		"count":    len(requests),
	})
}

// AcceptFriendRequest promotes a pending request into a friendship. Each
// user's update is filtered on the pending entry still existing, so a
// request that was already accepted, rejected, or never sent aborts the
// transaction instead of corrupting either list.
func AcceptFriendRequest(c *fiber.Ctx) error {
	var body friendActionBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.UserID == "" || body.RequesterID == "" {
		return lib.Fail(c, lib.BadRequest("userId and requesterId are required"))
	}

	userID, apiErr := parseID(body.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	requesterID, apiErr := parseID(body.RequesterID, "requester")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	users := lib.DB.Collection("users")

	err := withTransaction(c, func(sc mongo.SessionContext) error {
		now := time.Now()

		res, err := users.UpdateOne(sc,
			bson.M{"_id": userID, "friendRequestsReceived": requesterID},
			bson.M{
				"$pull":     bson.M{"friendRequestsReceived": requesterID},
				"$addToSet": bson.M{"friends": requesterID},
				"$set":      bson.M{"updatedAt": now},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return lib.BadRequest("No pending friend request from this user")
		}

		res, err = users.UpdateOne(sc,
			bson.M{"_id": requesterID, "friendRequestsSent": userID},
			bson.M{
				"$pull":     bson.M{"friendRequestsSent": userID},
				"$addToSet": bson.M{"friends": userID},
				"$set":      bson.M{"updatedAt": now},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return lib.BadRequest("No pending friend request from this user")
		}
		return nil
	})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	ctx, cancel := writeCtx(c)
	defer cancel()

	accepter := userSummary(ctx, userID)
	message := "accepted your friend request"
	if accepter != nil {
		message = accepter.Name + " accepted your friend request"
	}
	createNotification(ctx, models.Notification{
		Recipient: requesterID,
		Sender:    userID,
		Type:      models.NotificationFriendAccept,
		Message:   message,
	})

	return lib.Message(c, "Friend request accepted successfully")
}

// RejectFriendRequest drops a pending request from both sides
func RejectFriendRequest(c *fiber.Ctx) error {
	var body friendActionBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.UserID == "" || body.RequesterID == "" {
		return lib.Fail(c, lib.BadRequest("userId and requesterId are required"))
	}

	userID, apiErr := parseID(body.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	requesterID, apiErr := parseID(body.RequesterID, "requester")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	users := lib.DB.Collection("users")

	err := withTransaction(c, func(sc mongo.SessionContext) error {
		now := time.Now()

		res, err := users.UpdateOne(sc,
			bson.M{"_id": userID, "friendRequestsReceived": requesterID},
			bson.M{
				"$pull": bson.M{"friendRequestsReceived": requesterID},
				"$set":  bson.M{"updatedAt": now},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return lib.BadRequest("No pending friend request from this user")
		}

		_, err = users.UpdateOne(sc,
			bson.M{"_id": requesterID},
			bson.M{
				"$pull": bson.M{"friendRequestsSent": userID},
				"$set":  bson.M{"updatedAt": now},
			})
		return err
	})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	return lib.Message(c, "Friend request rejected successfully")
}

// GetFriendsList returns a user's friends as populated summaries
func GetFriendsList(c *fiber.Ctx) error {
	userID, apiErr := parseID(c.Query("userId"), "user")
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

	summaries, err := userSummaries(ctx, user.Friends)
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	friends := make([]models.UserSummary, 0, len(user.Friends))
	for _, id := range user.Friends {
		if s, ok := summaries[id]; ok {
			friends = append(friends, s)
		}
	}

	return lib.Success(c, fiber.StatusOK, fiber.Map{
		"friends": friends,
		"count":   len(friends),
	})
}

// Unfriend removes the friendship link from both users in one transaction
func Unfriend(c *fiber.Ctx) error {
	var body unfriendBody
	if err := c.BodyParser(&body); err != nil {
		return lib.Fail(c, lib.BadRequest("Invalid request body"))
	}
	if body.UserID == "" || body.FriendID == "" {
		return lib.Fail(c, lib.BadRequest("userId and friendId are required"))
	}

	userID, apiErr := parseID(body.UserID, "user")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}
	friendID, apiErr := parseID(body.FriendID, "friend")
	if apiErr != nil {
		return lib.Fail(c, apiErr)
	}

	users := lib.DB.Collection("users")

	err := withTransaction(c, func(sc mongo.SessionContext) error {
		now := time.Now()

		res, err := users.UpdateOne(sc,
			bson.M{"_id": userID, "friends": friendID},
			bson.M{
				"$pull": bson.M{"friends": friendID},
				"$set":  bson.M{"updatedAt": now},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return lib.BadRequest("Users are not friends")
		}

		_, err = users.UpdateOne(sc,
			bson.M{"_id": friendID},
			bson.M{
				"$pull": bson.M{"friends": userID},
				"$set":  bson.M{"updatedAt": now},
			})
		return err
	})
	if err != nil {
		return lib.Fail(c, lib.FromMongo(err, "", ""))
	}

	return lib.Message(c, "Friend removed successfully")
}
