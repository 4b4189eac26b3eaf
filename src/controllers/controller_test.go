package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"socialnest/src/middleware"
	"socialnest/src/routes"
)

// newTestApp wires every route the way main does. The handlers under test
// here all fail validation before touching the database.
func newTestApp() *fiber.App {
	app := fiber.New()
	limiter := middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(1000), 1000))

	routes.AuthRoutes(app)
	routes.UserRoutes(app, limiter)
	routes.PostRoutes(app, limiter)
	routes.CommentRoutes(app, limiter)
	routes.ReactionRoutes(app)
	routes.FriendRoutes(app)
	routes.CommunityRoutes(app, limiter)
	routes.NotificationRoutes(app)
	return app
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestInvalidIDFormat(t *testing.T) {
	app := newTestApp()

	for _, target := range []string{
		"/api/users/not-a-hex",
		"/api/posts/not-a-hex",
		"/api/comments/not-a-hex",
		"/api/communities/not-a-hex",
	} {
		status, env := doJSON(t, app, http.MethodGet, target, nil)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "Invalid")
	}
}

func TestCreateUserRequiresNameAndEmail(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{"name": "Jane"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Name and email are required", env.Error)
}

func TestCreateUserRejectsInvalidBody(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"name":  "Jane Doe",
		"email": "not-an-email",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Please provide a valid email", env.Error)
}

func TestPatchUserRequiresAction(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPatch, "/api/users/"+id, fiber.Map{
		"fields": fiber.Map{"bio": "hello"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Unknown or missing action", env.Error)
}

func TestPatchUserRejectsInvalidRole(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPatch, "/api/users/"+id, fiber.Map{
		"action": "set",
		"fields": fiber.Map{"role": "superuser"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid role", env.Error)
}

func TestPatchUserRunsValidators(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	cases := []struct {
		name   string
		fields fiber.Map
		want   string
	}{
		{"short name", fiber.Map{"name": "J"}, "Name must be at least 2 characters"},
		{"long bio", fiber.Map{"bio": strings.Repeat("b", 501)}, "Bio cannot exceed 500 characters"},
		{"long location", fiber.Map{"location": strings.Repeat("l", 101)}, "Location cannot exceed 100 characters"},
		{"bad phone", fiber.Map{"phone": "call me"}, "Please provide a valid phone number"},
		{"huge age", fiber.Map{"age": 200}, "Age must be between 1 and 150"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := doJSON(t, app, http.MethodPatch, "/api/users/"+id, fiber.Map{
				"action": "set",
				"fields": tc.fields,
			})
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.want, env.Error)
		})
	}
}

func TestPatchPostRunsValidators(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	cases := []struct {
		name   string
		fields fiber.Map
		want   string
	}{
		{"short title", fiber.Map{"title": "ab"}, "Title must be at least 3 characters"},
		{"short content", fiber.Map{"content": "too short"}, "Content must be at least 10 characters"},
		{"empty category", fiber.Map{"category": ""}, "Please provide a category"},
		{"too many tags", fiber.Map{"tags": make([]string, 11)}, "Cannot have more than 10 tags"},
		{"bad status", fiber.Map{"status": "hidden"}, "Invalid post status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := doJSON(t, app, http.MethodPatch, "/api/posts/"+id, fiber.Map{
				"action": "set",
				"fields": tc.fields,
			})
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.want, env.Error)
		})
	}
}

func TestPatchCommunityRunsValidators(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	cases := []struct {
		name   string
		fields fiber.Map
		want   string
	}{
		{"short name", fiber.Map{"name": "ab"}, "Name must be at least 3 characters"},
		{"long description", fiber.Map{"description": strings.Repeat("d", 501)}, "Description cannot be more than 500 characters"},
		{"bad category", fiber.Map{"category": "cooking"}, "Invalid community category"},
		{"bad privacy", fiber.Map{"privacy": "secret"}, "Invalid privacy setting"},
		{"long rule", fiber.Map{"rules": []string{strings.Repeat("r", 201)}}, "Rule cannot be more than 200 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := doJSON(t, app, http.MethodPatch, "/api/communities/"+id, fiber.Map{
				"action": "set",
				"fields": tc.fields,
			})
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.want, env.Error)
		})
	}
}

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"title":   "ab",
		"content": "long enough content here",
		"author":  primitive.NewObjectID(),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Title must be at least 3 characters", env.Error)
}

func TestPatchPostRequiresAction(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPatch, "/api/posts/"+id, fiber.Map{
		"fields": fiber.Map{"title": "New title"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Unknown or missing action", env.Error)
}

func TestPatchPostLikeRequiresUserID(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPatch, "/api/posts/"+id, fiber.Map{
		"action": "like",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Invalid user ID")
}

func TestCreateCommentRequiresFields(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/comments", fiber.Map{
		"content": "Nice post!",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Content, author, and post are required", env.Error)
}

func TestSetReactionValidation(t *testing.T) {
	app := newTestApp()
	user := primitive.NewObjectID().Hex()
	target := primitive.NewObjectID().Hex()

	t.Run("missing fields", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/reactions", fiber.Map{
			"userId": user,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "userId, targetId, targetType, and reactionType are required", env.Error)
	})

	t.Run("bad target type", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/reactions", fiber.Map{
			"userId": user, "targetId": target, "targetType": "user", "reactionType": "like",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "targetType must be post or comment", env.Error)
	})

	t.Run("bad reaction kind", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/reactions", fiber.Map{
			"userId": user, "targetId": target, "targetType": "post", "reactionType": "dislike",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Invalid reaction type", env.Error)
	})

	t.Run("bad user id", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/reactions", fiber.Map{
			"userId": "xyz", "targetId": target, "targetType": "post", "reactionType": "like",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, env.Error, "Invalid user ID")
	})
}

func TestRemoveReactionValidation(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodDelete, "/api/reactions", fiber.Map{
		"userId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "userId, targetId, and targetType are required", env.Error)
}

func TestSendFriendRequestValidation(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	t.Run("missing ids", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/friends/request", fiber.Map{
			"senderId": id,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "senderId and receiverId are required", env.Error)
	})

	t.Run("self request", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/friends/request", fiber.Map{
			"senderId": id, "receiverId": id,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Cannot send a friend request to yourself", env.Error)
	})

	t.Run("bad hex", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/friends/request", fiber.Map{
			"senderId": "abc", "receiverId": id,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, env.Error, "Invalid sender ID")
	})
}

func TestAcceptFriendRequestValidation(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/friends/accept", fiber.Map{
		"userId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "userId and requesterId are required", env.Error)
}

func TestGetFriendsListRequiresUserID(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodGet, "/api/friends", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Invalid user ID")
}

func TestGetFriendRequestsRejectsBadType(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodGet, "/api/friends/requests?userId="+id+"&type=pending", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "type must be received or sent", env.Error)
}

func TestCreateCommunityValidation(t *testing.T) {
	app := newTestApp()

	t.Run("missing fields", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/communities", fiber.Map{
			"name": "Gophers",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Name, description, and admin are required", env.Error)
	})

	t.Run("bad category", func(t *testing.T) {
		status, env := doJSON(t, app, http.MethodPost, "/api/communities", fiber.Map{
			"name":        "Gophers",
			"description": "A place to talk about Go",
			"admin":       primitive.NewObjectID(),
			"category":    "cooking",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Invalid community category", env.Error)
	})
}

func TestPatchCommunityRequiresAction(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPatch, "/api/communities/"+id, fiber.Map{
		"fields": fiber.Map{"name": "Renamed"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Unknown or missing action", env.Error)
}

func TestJoinCommunityRequiresUserID(t *testing.T) {
	app := newTestApp()
	id := primitive.NewObjectID().Hex()

	status, env := doJSON(t, app, http.MethodPost, "/api/communities/"+id+"/join", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "userId is required", env.Error)
}

func TestGetNotificationsRequiresUserID(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Invalid user ID")
}

func TestPatchNotificationsRequiresAction(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPatch, "/api/notifications", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Unknown or missing action", env.Error)
}

func TestDeleteNotificationRequiresID(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodDelete, "/api/notifications", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "notificationId is required", env.Error)
}

func TestLoginRequiresCredentials(t *testing.T) {
	app := newTestApp()

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email": "jane@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Email and password are required", env.Error)
}
