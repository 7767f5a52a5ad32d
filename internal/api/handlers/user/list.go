package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/storage"
)

// ListUsers handles GET /api/users: demo accounts with their scan counts.
func ListUsers(c *gin.Context) {
	users, err := storage.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}
