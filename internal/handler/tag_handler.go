package handler

import (
	"net/http"
	"strconv"
	"time"

	"storiny/backend/internal/database"
	"storiny/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// TagInput defines the structure for creating a tag.
type TagInput struct {
	Name string `json:"name" binding:"required"`
}

// TagResponse defines the public shape of a tag.
type TagResponse struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
}

func newTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
		Name:      tag.Name,
	}
}

// CreateTag godoc
// @Summary      Create a new tag
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagInput true "Tag Info"
// @Success      201  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Tag already exists"
// @Router       /admin/tags [post]
func CreateTag(c *gin.Context) {
	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.Tag{Name: input.Name}
	if err := database.DB.Create(&tag).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Tag already exists"})
		return
	}

	c.JSON(http.StatusCreated, newTagResponse(tag))
}

// GetTags godoc
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Success      200  {array}  TagResponse
// @Router       /tags [get]
func GetTags(c *gin.Context) {
	var tags []models.Tag
	if err := database.DB.Order("name ASC").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, newTagResponse(tag))
	}

	c.JSON(http.StatusOK, responses)
}

// FollowTag godoc
// @Summary      Follow a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Tag ID"
// @Success      201  {object}  map[string]string "{"message": "Following tag"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Failure      409  {object}  ErrorResponse "Already following"
// @Router       /tags/{id}/follow [post]
func FollowTag(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	tagID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	var tag models.Tag
	if err := database.DB.First(&tag, tagID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	follower := models.TagFollower{UserID: viewerID.(uint64), TagID: tagID}
	if err := database.DB.Create(&follower).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Following tag"})
}

// UnfollowTag godoc
// @Summary      Unfollow a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Tag ID"
// @Success      200  {object}  map[string]string "{"message": "Unfollowed tag"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not following"
// @Router       /tags/{id}/unfollow [post]
func UnfollowTag(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	tagID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	result := database.DB.Where("user_id = ? AND tag_id = ?", viewerID, tagID).Delete(&models.TagFollower{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow tag"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed tag"})
}
