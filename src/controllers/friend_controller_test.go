package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Accepting a request must land symmetrically: both users gain a friends
// entry and both pending lists lose theirs, inside one transaction.
func TestAcceptFriendRequestSymmetry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	userID := primitive.NewObjectID()
	requesterID := primitive.NewObjectID()
	body := fiber.Map{"userId": userID.Hex(), "requesterId": requesterID.Hex()}

	mt.Run("moves the pending entry into both friends lists", func(mt *mtest.T) {
		app := mockApp(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
			mtest.CreateSuccessResponse(), // commitTransaction
			mtest.CreateCursorResponse(0, "socialnest_test.users", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: userID}, {Key: "name", Value: "Jane Doe"}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}), // notification insert
		)

		status, env := doJSON(mt.T, app, http.MethodPost, "/api/friends/accept", body)
		assert.Equal(mt.T, http.StatusOK, status)
		assert.True(mt.T, env.Success)

		updates := startedCommands(mt, "update")
		require.Len(mt.T, updates, 2)
		for _, cmd := range updates {
			assert.Contains(mt.T, cmd, "$pull")
			assert.Contains(mt.T, cmd, "$addToSet")
			assert.Contains(mt.T, cmd, "friends")
		}
		// The accepter loses the received entry, the requester the sent one,
		// and each update is filtered on that entry still being pending.
		assert.Contains(mt.T, updates[0], "friendRequestsReceived")
		assert.Contains(mt.T, updates[1], "friendRequestsSent")
		assert.Len(mt.T, startedCommands(mt, "commitTransaction"), 1)
	})

	mt.Run("no pending request aborts the transaction", func(mt *mtest.T) {
		app := mockApp(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		status, env := doJSON(mt.T, app, http.MethodPost, "/api/friends/accept", body)
		assert.Equal(mt.T, http.StatusBadRequest, status)
		assert.Equal(mt.T, "No pending friend request from this user", env.Error)

		assert.Len(mt.T, startedCommands(mt, "update"), 1)
		assert.Len(mt.T, startedCommands(mt, "abortTransaction"), 1)
		assert.Empty(mt.T, startedCommands(mt, "commitTransaction"))
	})
}
