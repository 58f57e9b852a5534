package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DeactivateMe godoc
// @Summary      Deactivate account
// @Description  Deactivates the viewer's account. Owned content, relationships and engagement become invisible until reactivation.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account deactivated"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/deactivate [post]
func DeactivateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	if err := Lifecycle.Deactivate(c.Request.Context(), viewerID.(uint64)); err != nil {
		lifecycleError(c, err)
		return
	}
	_ = Cache.Invalidate(c.Request.Context(), viewerID.(uint64))
	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}

// ActivateMe godoc
// @Summary      Reactivate account
// @Description  Clears the deactivation flag. Dependents come back once the account is fully active again.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account activated"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/activate [post]
func ActivateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	if err := Lifecycle.Activate(c.Request.Context(), viewerID.(uint64)); err != nil {
		lifecycleError(c, err)
		return
	}
	_ = Cache.Invalidate(c.Request.Context(), viewerID.(uint64))
	c.JSON(http.StatusOK, gin.H{"message": "Account activated"})
}

// DeleteMe godoc
// @Summary      Delete account
// @Description  Soft-deletes the viewer's account. Reversible via restore.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account deleted"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me [delete]
func DeleteMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	if err := Lifecycle.SoftDelete(c.Request.Context(), viewerID.(uint64)); err != nil {
		lifecycleError(c, err)
		return
	}
	_ = Cache.Invalidate(c.Request.Context(), viewerID.(uint64))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// RestoreMe godoc
// @Summary      Restore account
// @Description  Clears the soft-delete flag. Dependents come back once the account is fully active again.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account restored"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/restore [post]
func RestoreMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	if err := Lifecycle.Restore(c.Request.Context(), viewerID.(uint64)); err != nil {
		lifecycleError(c, err)
		return
	}
	_ = Cache.Invalidate(c.Request.Context(), viewerID.(uint64))
	c.JSON(http.StatusOK, gin.H{"message": "Account restored"})
}

// HardDeleteUser godoc
// @Summary      Permanently delete a user
// @Description  Irreversibly removes a user, everything they exclusively own, and clears shared references. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string "{"message": "User permanently deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/users/{id} [delete]
func HardDeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := Lifecycle.HardDelete(c.Request.Context(), userID); err != nil {
		lifecycleError(c, err)
		return
	}
	_ = Cache.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "User permanently deleted"})
}

func lifecycleError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Lifecycle transition failed"})
}
