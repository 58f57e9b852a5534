package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storiny/backend/internal/database"
	"storiny/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FollowUser godoc
// @Summary      Follow a user
// @Description  Creates a follow edge from the viewer to the target user.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Followed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Already following"
// @Router       /users/{id}/follow [post]
func FollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID.(uint64) == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	var existing models.Relation
	err = database.DB.Where("follower_id = ? AND followed_id = ?", viewerID, targetUserID).First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Relation{
			FollowerID: viewerID.(uint64),
			FollowedID: targetUserID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", targetUserID).
			Update("follower_count", gorm.Expr("follower_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow"})
		return
	}

	Cache.BumpFollowerCount(c.Request.Context(), targetUserID, 1)
	notify(viewerID.(uint64), targetUserID, "user.follow")

	c.JSON(http.StatusCreated, gin.H{"message": "Followed"})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Removes the viewer's follow edge to the target user.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Unfollowed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not following"
// @Router       /users/{id}/unfollow [post]
func UnfollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	var removed bool
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followed_id = ?", viewerID, targetUserID).
			Delete(&models.Relation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.User{}).Where("id = ?", targetUserID).
			Update("follower_count", gorm.Expr("follower_count - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following"})
		return
	}

	Cache.BumpFollowerCount(c.Request.Context(), targetUserID, -1)

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}
