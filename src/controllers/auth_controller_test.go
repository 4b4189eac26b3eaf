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
	"golang.org/x/crypto/bcrypt"
)

// Login must look the email up by exact value. The input is lowercased and
// trimmed before querying, and never reaches the filter as a pattern.
func TestLoginExactEmailLookup(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matches the stored lowercase email", func(mt *mtest.T) {
		app := mockApp(mt)

		hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
		require.NoError(mt.T, err)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "socialnest_test.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "name", Value: "Jane Doe"},
				{Key: "email", Value: "jane@example.com"},
				{Key: "password", Value: string(hash)},
				{Key: "role", Value: "user"},
				{Key: "status", Value: "active"},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			), // lastLogin update
		)

		status, env := doJSON(mt.T, app, http.MethodPost, "/api/auth/login",
			fiber.Map{"email": " JANE@Example.com ", "password": "hunter22"})
		assert.Equal(mt.T, http.StatusOK, status)
		assert.True(mt.T, env.Success)

		finds := startedCommands(mt, "find")
		require.Len(mt.T, finds, 1)
		assert.Contains(mt.T, finds[0], `"jane@example.com"`)
		assert.NotContains(mt.T, finds[0], "$regex")
	})

	mt.Run("a pattern in the email matches nothing", func(mt *mtest.T) {
		app := mockApp(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "socialnest_test.users", mtest.FirstBatch),
		)

		status, env := doJSON(mt.T, app, http.MethodPost, "/api/auth/login",
			fiber.Map{"email": ".*@example.com", "password": "hunter22"})
		assert.Equal(mt.T, http.StatusUnauthorized, status)
		assert.Equal(mt.T, "Invalid email or password", env.Error)

		finds := startedCommands(mt, "find")
		require.Len(mt.T, finds, 1)
		assert.NotContains(mt.T, finds[0], "$regex")
	})

	mt.Run("wrong password is a 401", func(mt *mtest.T) {
		app := mockApp(mt)

		hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
		require.NoError(mt.T, err)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "socialnest_test.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "name", Value: "Jane Doe"},
				{Key: "email", Value: "jane@example.com"},
				{Key: "password", Value: string(hash)},
			}),
		)

		status, env := doJSON(mt.T, app, http.MethodPost, "/api/auth/login",
			fiber.Map{"email": "jane@example.com", "password": "not-the-password"})
		assert.Equal(mt.T, http.StatusUnauthorized, status)
		assert.Equal(mt.T, "Invalid email or password", env.Error)
	})
}
