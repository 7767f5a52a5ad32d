package util

import (
	"bytes"
	"log"

	clamd "github.com/dutchcoders/go-clamd"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/services"
	"github.com/surgical-vision/scan-service/internal/storage"
)

var clamAvURL string

// InitClamAV enables upload scanning against the given clamd address.
// Empty disables scanning; uploads are then accepted as-is.
func InitClamAV(url string) {
	clamAvURL = url
}

// ScanUploadAsync scans the upload bytes in the background when clamd is
// configured.
func ScanUploadAsync(scanID, objectName string, data []byte) {
	if clamAvURL == "" {
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	go scanUpload(scanID, objectName, buf)
}

func scanUpload(scanID, objectName string, data []byte) {
	c := clamd.NewClamd(clamAvURL)
	response, err := c.ScanStream(bytes.NewReader(data), make(chan bool))
	if err != nil {
		log.Printf("[ClamAV] scan failed for %s: %v", scanID, err)
		return
	}

	infected := false
	for res := range response {
		if res.Status == clamd.RES_FOUND {
			log.Printf("[ClamAV] threat detected in %s: %s", scanID, res.Description)
			infected = true
		}
	}

	if !infected {
		log.Printf("[ClamAV] scan finished for %s: clean", scanID)
		return
	}

	// Quarantine: drop the stored object and fail the scan record.
	if minioService := services.GetMinioService(); minioService != nil {
		if err := minioService.DeleteScanImage(objectName); err != nil {
			log.Printf("[ClamAV] failed to delete infected object: %v", err)
		}
	}

	if !storage.UpdateScanStatus(scanID, models.StatusFailed) {
		log.Printf("[ClamAV] failed to update status for %s", scanID)
		return
	}
	log.Printf("[ClamAV] scan %s marked failed", scanID)
}
