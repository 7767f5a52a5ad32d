package scan

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/services"
	"github.com/surgical-vision/scan-service/internal/storage"
)

func DeleteScan(c *gin.Context) {
	scanID := c.Param("id")

	record, exists := storage.GetScan(scanID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}

	// Tear down any live viewer session before the record goes away.
	Viewers.Close(scanID)

	minioService := services.GetMinioService()
	if minioService != nil && record.FilePath != "" {
		objectName := record.ID + objectExt(record.FileName)
		if err := minioService.DeleteScanImage(objectName); err != nil {
			log.Printf("warning: failed to delete scan image from storage: %v", err)
		}
	}

	if !storage.DeleteScan(scanID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scan"})
		return
	}

	if services.NATSEnabled() {
		if err := services.PublishEvent("scans.deleted", gin.H{"scan_id": scanID}); err != nil {
			log.Printf("warning: failed to publish scans.deleted event: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scan deleted successfully",
		"scan_id": scanID,
	})
}
