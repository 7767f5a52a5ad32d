// Annotation HTTP endpoints acknowledge without persisting: annotations
// live in viewer session memory, and the REST surface only mirrors the
// request back. The annotations table is written by the scene session
// layer, not by these routes.
package annotation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surgical-vision/scan-service/internal/models"
)

type createRequest struct {
	ScanID     string  `json:"scan_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Text       string  `json:"text"`
	Severity   string  `json:"severity"`
	SliceIndex int     `json:"slice_index"`
}

// CreateAnnotation handles POST /api/annotations: echoes the annotation
// back with an ID, 201, and stores nothing.
func CreateAnnotation(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	severity := req.Severity
	if !models.ValidSeverity(severity) {
		severity = models.SeverityInfo
	}

	c.JSON(http.StatusCreated, models.Annotation{
		ID:         uuid.New().String(),
		ScanID:     req.ScanID,
		X:          req.X,
		Y:          req.Y,
		Z:          req.Z,
		Text:       req.Text,
		Severity:   severity,
		SliceIndex: req.SliceIndex,
		CreatedAt:  time.Now(),
	})
}

// ListAnnotations handles GET /api/annotations/:scanId and always returns
// an empty list.
func ListAnnotations(c *gin.Context) {
	c.JSON(http.StatusOK, []models.Annotation{})
}
