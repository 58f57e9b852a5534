package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storiny/backend/internal/auth"
	"storiny/backend/internal/cache"
	"storiny/backend/internal/config"
	"storiny/backend/internal/database"
	"storiny/backend/internal/friends"
	"storiny/backend/internal/handler"
	"storiny/backend/internal/models"
	"storiny/backend/pkg/jwt"
)

// setupRouter points the global DB at an in-memory SQLite database, wires the
// handlers against it and a throwaway Redis, and returns a router with the
// friend listing route.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	database.DB = db

	mr := miniredis.RunT(t)
	handler.Init(db, cache.NewRedisCache(mr.Addr()))

	router := gin.New()
	router.GET("/user/:user_id/friends", auth.OptionalAuthMiddleware(), handler.ListUserFriends)
	router.POST("/users/:id/request", auth.AuthMiddleware(), handler.SendRequest)
	return router
}

func seedUser(t *testing.T, id uint64, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Name:         name,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x",
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func listFriends(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListUserFriendsValidation(t *testing.T) {
	router := setupRouter(t)
	seedUser(t, 1, "One")

	cases := []struct {
		name string
		path string
	}{
		{"bad user id", "/user/abc/friends"},
		{"page zero", "/user/1/friends?page=0"},
		{"page too large", "/user/1/friends?page=1001"},
		{"page not a number", "/user/1/friends?page=x"},
		{"unknown sort", "/user/1/friends?sort=alphabetical"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := listFriends(t, router, tc.path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := listFriends(t, router, "/user/1/friends?query="+strings.Repeat("a", 161), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUserFriendsQueryLengthCountsRunes(t *testing.T) {
	router := setupRouter(t)
	seedUser(t, 1, "One")

	// 90 multibyte characters are 180 bytes but well within the limit
	w := listFriends(t, router, "/user/1/friends?query="+url.QueryEscape(strings.Repeat("é", 90)), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = listFriends(t, router, "/user/1/friends?query="+url.QueryEscape(strings.Repeat("é", 161)), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendRequestSurvivesNotificationFailure(t *testing.T) {
	router := setupRouter(t)
	sender := seedUser(t, 1, "Sender")
	seedUser(t, 2, "Receiver")

	// with the notifications table gone the notification write fails,
	// but the request itself must still go through
	require.NoError(t, database.DB.Exec("DROP TABLE notifications").Error)

	token, err := jwt.GenerateToken(sender.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users/2/request", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var edges int64
	require.NoError(t, database.DB.Model(&models.Friend{}).
		Where("transmitter_id = ? AND receiver_id = ?", 1, 2).Count(&edges).Error)
	assert.EqualValues(t, 1, edges)
}

func TestListUserFriendsUnknownSubject(t *testing.T) {
	router := setupRouter(t)

	w := listFriends(t, router, "/user/99/friends", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUserFriendsAnonymousAndAuthed(t *testing.T) {
	router := setupRouter(t)

	subject := seedUser(t, 1, "Subject")
	subject.IsPrivate = true
	require.NoError(t, database.DB.Save(subject).Error)
	friendUser := seedUser(t, 2, "Friend")

	now := time.Now().UTC()
	require.NoError(t, database.DB.Create(&models.Friend{
		TransmitterID: subject.ID, ReceiverID: friendUser.ID, AcceptedAt: &now,
	}).Error)

	// the private subject's list reads as empty to an anonymous viewer
	w := listFriends(t, router, "/user/1/friends", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page []friends.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page)

	// the subject's friend gets the real page
	token, err := jwt.GenerateToken(friendUser.ID)
	require.NoError(t, err)
	w = listFriends(t, router, "/user/1/friends", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 1)
	assert.Equal(t, friendUser.ID, page[0].ID)
}
