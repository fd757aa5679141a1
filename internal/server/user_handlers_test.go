package server

import (
	"context"
	"net/http"
	"testing"

	"socialconnect/internal/models"
	"socialconnect/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setPrivacy(t *testing.T, db *gorm.DB, userID uint, privacy models.Privacy) {
	t.Helper()
	profile := profileOf(t, db, userID)
	profile.Privacy = privacy
	require.NoError(t, repository.NewProfileRepository(db).Update(context.Background(), profile))
}

func TestGetMyProfileHandler(t *testing.T) {
	app, s, db := newTestServer(t)
	user := seedUser(t, db, "alice")

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("returns the caller with profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, accessToken(t, s, user.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "alice", body["username"])

		profile, ok := body["profile"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "public", profile["privacy"])
	})
}

func TestUpdateMyProfileHandler(t *testing.T) {
	app, s, db := newTestServer(t)
	user := seedUser(t, db, "alice")
	token := accessToken(t, s, user.ID)

	t.Run("updates bio and privacy", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/users/me", fiber.Map{
			"bio":     "hello there",
			"privacy": "private",
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "hello there", body["bio"])
		assert.Equal(t, "private", body["privacy"])
	})

	t.Run("rejects unknown privacy mode", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/users/me", fiber.Map{
			"privacy": "friends",
		}, token)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "privacy", decodeBody(t, resp)["field"])
	})

	t.Run("uploads an avatar via multipart", func(t *testing.T) {
		resp := doMultipart(t, app, http.MethodPatch, "/api/users/me",
			map[string]string{"location": "Berlin"},
			map[string][]byte{"avatar": pngBytes(t)}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Contains(t, body["avatar_url"], "/media/avatars/")
		assert.Equal(t, "Berlin", body["location"])
	})

	t.Run("rejects a non-image avatar", func(t *testing.T) {
		resp := doMultipart(t, app, http.MethodPatch, "/api/users/me", nil,
			map[string][]byte{"avatar": []byte("plain text")}, token)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "avatar", decodeBody(t, resp)["field"])
	})
}

func TestGetUserProfileHandler(t *testing.T) {
	app, s, db := newTestServer(t)
	open := seedUser(t, db, "open")
	locked := seedUser(t, db, "locked")
	gated := seedUser(t, db, "gated")
	viewer := seedUser(t, db, "viewer")
	setPrivacy(t, db, locked.ID, models.PrivacyPrivate)
	setPrivacy(t, db, gated.ID, models.PrivacyFollowers)

	viewerToken := accessToken(t, s, viewer.ID)

	t.Run("public profile is visible to anonymous", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/"+itoa(open.ID), nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "open", decodeBody(t, resp)["username"])
	})

	t.Run("private profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/"+itoa(locked.ID), nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/users/"+itoa(locked.ID), nil, viewerToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/users/"+itoa(locked.ID), nil,
			accessToken(t, s, locked.ID))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		admin := seedAdmin(t, db, "root")
		resp = doJSON(t, app, http.MethodGet, "/api/users/"+itoa(locked.ID), nil,
			accessToken(t, s, admin.ID))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("followers profile opens after following", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/"+itoa(gated.ID), nil, viewerToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		require.Equal(t, http.StatusCreated, doJSON(t, app, http.MethodPost,
			"/api/follows/follow", fiber.Map{"user_id": gated.ID}, viewerToken).StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/users/"+itoa(gated.ID), nil, viewerToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestSearchUsersHandler(t *testing.T) {
	app, s, db := newTestServer(t)
	seedUser(t, db, "anna")
	hidden := seedUser(t, db, "annabel")
	setPrivacy(t, db, hidden.ID, models.PrivacyPrivate)

	t.Run("requires a query for non-admins", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous search only sees public profiles", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/?q=ann", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("owners find themselves", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/?q=ann", nil,
			accessToken(t, s, hidden.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, decodeBody(t, resp)["count"])
	})

	t.Run("admins browse without a query", func(t *testing.T) {
		admin := seedAdmin(t, db, "root")
		resp := doJSON(t, app, http.MethodGet, "/api/users/", nil,
			accessToken(t, s, admin.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 3, decodeBody(t, resp)["count"])
	})
}
