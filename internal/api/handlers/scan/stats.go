package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/storage"
)

func GetStats(c *gin.Context) {
	stats, err := storage.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
