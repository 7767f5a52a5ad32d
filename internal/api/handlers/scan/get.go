package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/storage"
)

func GetScan(c *gin.Context) {
	id := c.Param("id")

	record, exists := storage.GetScan(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func ListScans(c *gin.Context) {
	scans := storage.GetAllScans()
	c.JSON(http.StatusOK, scans)
}
