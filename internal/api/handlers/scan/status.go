package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/storage"
)

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/scans/:id/status.
func UpdateStatus(c *gin.Context) {
	scanID := c.Param("id")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if !storage.UpdateScanStatus(scanID, req.Status) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"scan_id": scanID,
		"status":  req.Status,
	})
}
