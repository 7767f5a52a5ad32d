package scan

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/scene"
	"github.com/surgical-vision/scan-service/internal/storage"
)

// Viewers owns the live scene sessions, one per scan.
var Viewers = scene.NewManager()

// GetScene handles GET /api/scans/:id/scene: opens (or reuses) the scan's
// viewer session and returns the scene description.
func GetScene(c *gin.Context) {
	id := c.Param("id")

	record, exists := storage.GetScan(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}

	width := intQuery(c, "width", 800)
	height := intQuery(c, "height", 600)

	session := Viewers.Open(record, width, height)
	if session == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Viewport has no area"})
		return
	}

	c.JSON(http.StatusOK, session.Scene.Describe())
}

// GetSlice handles GET /api/scans/:id/slice: returns the 2D draw-op list
// for a slice index with the requested overlay toggles.
func GetSlice(c *gin.Context) {
	id := c.Param("id")

	if _, exists := storage.GetScan(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}

	index := intQuery(c, "index", 0)
	total := intQuery(c, "total", 20)

	overlays := scene.Overlays{
		Vessels: boolQuery(c, "vessels"),
		Tumor:   boolQuery(c, "tumor"),
		Bone:    boolQuery(c, "bone"),
	}

	var annotations []models.Annotation
	if session, ok := Viewers.Get(id); ok {
		annotations = session.Annotations()
	}

	ops := scene.RenderSlice(index, total, overlays, annotations)
	c.JSON(http.StatusOK, gin.H{
		"index": index,
		"total": total,
		"ops":   ops,
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func boolQuery(c *gin.Context, key string) bool {
	return c.Query(key) == "true"
}

func objectExt(fileName string) string {
	return filepath.Ext(fileName)
}
