package scan

import (
	"fmt"
	"log"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/services"
	"github.com/surgical-vision/scan-service/internal/storage"
)

// processUpload persists the scan record, pushes the image bytes to object
// storage when configured, and publishes the uploaded event. Metadata is
// the source of truth; a failed object-store write rolls nothing forward.
func processUpload(record *models.Scan, objectName string, data []byte) error {
	minioService := services.GetMinioService()
	if minioService != nil {
		contentType := record.FileType
		if err := minioService.UploadScanImage(bytesReader(data), int64(len(data)), objectName, contentType); err != nil {
			return fmt.Errorf("failed to upload to storage: %w", err)
		}
	}

	if err := storage.SaveScan(*record); err != nil {
		if minioService != nil {
			if delErr := minioService.DeleteScanImage(objectName); delErr != nil {
				log.Printf("warning: failed to cleanup object after metadata save failure: %v", delErr)
			}
		}
		return fmt.Errorf("failed to save scan metadata: %w", err)
	}

	if services.NATSEnabled() {
		uploadEvent := map[string]interface{}{
			"action":       "uploaded",
			"scan_id":      record.ID,
			"object_name":  objectName,
			"scan_type":    record.ScanType,
			"risk_level":   record.RiskLevel,
			"patient_name": record.PatientName,
			"uploaded_at":  record.UploadedAt.UTC().Format(time.RFC3339),
		}
		if err := services.PublishEvent("scans.uploaded", uploadEvent); err != nil {
			log.Printf("warning: failed to publish scans.uploaded event: %v", err)
		}
	}

	return nil
}

// publishAssessment emits the scans.assessed event for the risk result
// attached to an upload.
func publishAssessment(assessment models.RiskAssessment) {
	if !services.NATSEnabled() {
		return
	}
	event := map[string]interface{}{
		"action":      "assessed",
		"scan_id":     assessment.ScanID,
		"level":       assessment.Level,
		"findings":    assessment.Findings,
		"confidence":  assessment.Confidence,
		"assessed_at": assessment.AssessedAt.UTC().Format(time.RFC3339),
	}
	if err := services.PublishEvent("scans.assessed", event); err != nil {
		log.Printf("warning: failed to publish scans.assessed event: %v", err)
	}
}
