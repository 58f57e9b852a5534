package handler

import (
	"net/http"
	"strconv"
	"time"

	"storiny/backend/internal/database"
	"storiny/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// StoryInput defines the structure for creating a story.
type StoryInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// CommentInput defines the structure for creating a comment or reply.
type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// StoryResponse defines the public shape of a story.
type StoryResponse struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateStory godoc
// @Summary      Create a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body StoryInput true "Story Info"
// @Success      201  {object}  StoryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /stories [post]
func CreateStory(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input StoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story := models.Story{
		UserID:      viewerID.(uint64),
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
	}
	if err := database.DB.Create(&story).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create story"})
		return
	}

	c.JSON(http.StatusCreated, StoryResponse{
		ID:          story.ID,
		UserID:      story.UserID,
		Title:       story.Title,
		Description: story.Description,
		CreatedAt:   story.CreatedAt,
	})
}

// GetUserStories godoc
// @Summary      List a user's stories
// @Description  Returns the live stories of a user, newest first, with pagination.
// @Tags         stories
// @Produce      json
// @Param        user_id path  int  true   "User ID"
// @Param        page    query int  false  "Page number" default(1)
// @Param        limit   query int  false  "Items per page" default(10)
// @Success      200  {object}  Page[StoryResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /user/{user_id}/stories [get]
func GetUserStories(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	query := database.DB.Model(&models.Story{}).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC")

	result, err := paginate[models.Story](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stories"})
		return
	}

	stories := make([]StoryResponse, 0, len(result.Items))
	for _, s := range result.Items {
		stories = append(stories, StoryResponse{
			ID:          s.ID,
			UserID:      s.UserID,
			Title:       s.Title,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, Page[StoryResponse]{Items: stories, Meta: result.Meta})
}

// CreateComment godoc
// @Summary      Comment on a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Story ID"
// @Param        input body  CommentInput  true  "Comment Info"
// @Success      201  {object}  map[string]uint64 "{"id": ...}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Story not found"
// @Router       /stories/{id}/comments [post]
func CreateComment(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story ID"})
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var story models.Story
	if err := database.DB.Where("id = ? AND deleted_at IS NULL", storyID).First(&story).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	comment := models.Comment{
		UserID:  viewerID.(uint64),
		StoryID: storyID,
		Content: input.Content,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if story.UserID != comment.UserID {
		notify(comment.UserID, story.UserID, "story.comment")
	}

	c.JSON(http.StatusCreated, gin.H{"id": comment.ID})
}

// LikeStory godoc
// @Summary      Like a story
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Story ID"
// @Success      201  {object}  map[string]string "{"message": "Liked"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Story not found"
// @Failure      409  {object}  ErrorResponse "Already liked"
// @Router       /stories/{id}/like [post]
func LikeStory(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story ID"})
		return
	}

	var story models.Story
	if err := database.DB.Where("id = ? AND deleted_at IS NULL", storyID).First(&story).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	like := models.StoryLike{UserID: viewerID.(uint64), StoryID: storyID}
	if err := database.DB.Create(&like).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already liked"})
		return
	}

	if story.UserID != like.UserID {
		notify(like.UserID, story.UserID, "story.like")
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Liked"})
}

// BookmarkStory godoc
// @Summary      Bookmark a story
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Story ID"
// @Success      201  {object}  map[string]string "{"message": "Bookmarked"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Story not found"
// @Failure      409  {object}  ErrorResponse "Already bookmarked"
// @Router       /stories/{id}/bookmark [post]
func BookmarkStory(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story ID"})
		return
	}

	var story models.Story
	if err := database.DB.Where("id = ? AND deleted_at IS NULL", storyID).First(&story).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	bookmark := models.Bookmark{UserID: viewerID.(uint64), StoryID: storyID}
	if err := database.DB.Create(&bookmark).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already bookmarked"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Bookmarked"})
}
