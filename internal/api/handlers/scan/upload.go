package scan

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surgical-vision/scan-service/internal/api/handlers/util"
	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/services"
)

// MaxUploadSize caps scan uploads at 50MB.
const MaxUploadSize = 50 << 20

func allowedExtension(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".dcm":
		return true
	}
	return false
}

// UploadScan handles POST /api/scans: validates the multipart form, runs
// the mock risk assessment, persists the scan record and responds 201 with
// scan and assessment. Image bytes are kept in memory for the optional
// object-store upload and virus scan, then discarded.
func UploadScan(c *gin.Context) {
	patientName := strings.TrimSpace(c.PostForm("patient_name"))
	if patientName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient name is required"})
		return
	}

	scanType := strings.ToLower(strings.TrimSpace(c.PostForm("scan_type")))
	if scanType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scan type is required"})
		return
	}
	if !models.ValidScanType(scanType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fileHeader.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 50MB)"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtension(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: " + ext})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	if int64(len(data)) > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 50MB)"})
		return
	}

	scanID := uuid.New().String()
	objectName := scanID + ext

	uploadedBy := strings.TrimSpace(c.PostForm("uploaded_by"))
	if uploadedBy == "" {
		uploadedBy = userNameFromContext(c)
	}

	record := models.Scan{
		ID:          scanID,
		PatientName: patientName,
		ScanType:    scanType,
		Status:      models.StatusCompleted,
		Notes:       strings.TrimSpace(c.PostForm("notes")),
		UploadedBy:  uploadedBy,
		FileName:    fileHeader.Filename,
		FilePath:    "uploads/" + objectName,
		FileSize:    fileHeader.Size,
		FileType:    services.GetContentType(ext),
		UploadedAt:  time.Now(),
	}

	assessment := services.AssessScan(scanID, scanType)
	record.RiskLevel = assessment.Level

	if err := processUpload(&record, objectName, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	publishAssessment(assessment)

	// Malware scan runs after the response; an infected upload flips the
	// scan to failed.
	util.ScanUploadAsync(scanID, objectName, data)

	c.JSON(http.StatusCreated, gin.H{
		"scan":           record,
		"riskAssessment": assessment,
	})
}

// userNameFromContext returns the authenticated display name, empty when
// auth middleware is not installed.
func userNameFromContext(c *gin.Context) string {
	if name, exists := c.Get("userName"); exists {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return ""
}

// reader for object-store upload without re-reading the multipart file.
func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
