package api

import (
	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/cmd/middleware"
	"github.com/surgical-vision/scan-service/internal/api/handlers"
	"github.com/surgical-vision/scan-service/internal/api/handlers/annotation"
	"github.com/surgical-vision/scan-service/internal/api/handlers/scan"
	"github.com/surgical-vision/scan-service/internal/api/handlers/user"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

func RegisterRoutes(r *gin.Engine) {
	// Enable CORS for preflight requests
	r.Use(corsMiddleware())

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		// Scan endpoints
		api.GET("/scans", scan.ListScans)
		api.GET("/scans/:id", scan.GetScan)
		api.POST("/scans", scan.UploadScan)
		api.POST("/scans/:id/status", scan.UpdateStatus)
		api.DELETE("/scans/:id", scan.DeleteScan)

		// Viewer endpoints
		api.GET("/scans/:id/scene", scan.GetScene)
		api.GET("/scans/:id/slice", scan.GetSlice)

		api.GET("/users", user.ListUsers)
		api.GET("/stats", scan.GetStats)

		// Annotation endpoints acknowledge without storing
		api.POST("/annotations", annotation.CreateAnnotation)
		api.GET("/annotations/:scanId", annotation.ListAnnotations)
	}
}
