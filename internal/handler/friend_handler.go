package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"storiny/backend/internal/database"
	"storiny/backend/internal/friends"
	"storiny/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxSearchLen bounds the friend-search query string.
const maxSearchLen = 160

// maxPage bounds the page parameter of the friend listing.
const maxPage = 1000

// ListUserFriends godoc
// @Summary      List a user's friends
// @Description  Returns a ranked, paginated page of a user's accepted friends, respecting the subject's privacy settings. Works for anonymous viewers.
// @Tags         friendship
// @Produce      json
// @Param        user_id path      int     true   "Subject User ID"
// @Param        page    query     int     false  "Page number (1-1000)" default(1)
// @Param        sort    query     string  false  "Sort mode (recent, old, popular)"
// @Param        query   query     string  false  "Search query (max 160 chars)"
// @Success      200     {array}   friends.Summary
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /user/{user_id}/friends [get]
func ListUserFriends(c *gin.Context) {
	subjectID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 || page > maxPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page must be between 1 and 1000"})
		return
	}

	sort := c.Query("sort")
	switch friends.Sort(sort) {
	case friends.SortRecent, friends.SortOld, friends.SortPopular:
	case "":
		sort = string(friends.SortPopular)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sort must be one of: recent, old, popular"})
		return
	}

	search := c.Query("query")
	if utf8.RuneCountInString(search) > maxSearchLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query too long"})
		return
	}

	var viewerID *uint64
	if v, ok := c.Get("userID"); ok {
		id := v.(uint64)
		viewerID = &id
	}

	page_, err := Friends.ListFriends(c.Request.Context(), friends.Params{
		SubjectID: subjectID,
		ViewerID:  viewerID,
		Page:      page,
		Sort:      friends.Sort(sort),
		Search:    search,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list friends"})
		return
	}

	c.JSON(http.StatusOK, page_)
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Request sent successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Relation already exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func SendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID.(uint64) == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send request to yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	// Check if an edge already exists in either direction
	var existing models.Friend
	err = database.DB.Where(
		"(transmitter_id = ? AND receiver_id = ?) OR (transmitter_id = ? AND receiver_id = ?)",
		viewerID, targetUserID, targetUserID, viewerID,
	).First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "Relation already exists or another error occurred"})
		return
	}

	newFriend := models.Friend{
		TransmitterID: viewerID.(uint64),
		ReceiverID:    targetUserID,
	}
	if err := database.DB.Create(&newFriend).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	notify(viewerID.(uint64), targetUserID, "friend.request")

	c.JSON(http.StatusCreated, gin.H{"message": "Request sent successfully"})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func AcceptRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	var request models.Friend
	err = database.DB.Where(
		"transmitter_id = ? AND receiver_id = ? AND accepted_at IS NULL AND deleted_at IS NULL",
		requestingUserID, viewerID,
	).First(&request).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	now := time.Now().UTC()
	if err := database.DB.Model(&request).Update("accepted_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	notify(viewerID.(uint64), requestingUserID, "friend.accept")

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline friend request
// @Description  Declines a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request declined"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/decline [post]
func DeclineRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	result := database.DB.Where(
		"transmitter_id = ? AND receiver_id = ? AND accepted_at IS NULL",
		requestingUserID, viewerID,
	).Delete(&models.Friend{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request declined"})
}

// RemoveFriend godoc
// @Summary      Remove friend
// @Description  Cancels a sent request, or removes a user from friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Relation removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Relation not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/remove [post]
func RemoveFriend(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	result := database.DB.Where(
		"(transmitter_id = ? AND receiver_id = ?) OR (transmitter_id = ? AND receiver_id = ?)",
		viewerID, targetUserID, targetUserID, viewerID,
	).Delete(&models.Friend{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove relation"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relation not found to remove"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Relation removed"})
}

// notify records an in-app notification plus the recipient's delivered copy.
// Failures are logged, not propagated: the triggering request already
// committed its own write.
func notify(notifierID, notifiedID uint64, kind string) {
	err := database.DB.Create(&models.Notification{NotifierID: notifierID, NotifiedID: notifiedID, Kind: kind}).Error
	if err != nil {
		log.Printf("Failed to record %s notification: %v", kind, err)
		return
	}
	err = database.DB.Create(&models.NotificationOut{NotifiedID: notifiedID, Kind: kind}).Error
	if err != nil {
		log.Printf("Failed to record delivered %s notification: %v", kind, err)
	}
}
