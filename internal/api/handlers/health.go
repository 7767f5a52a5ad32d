package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "surgical-vision-backend"

var servicePort string

// SetPort records the listen port reported by the health endpoint.
func SetPort(port string) {
	servicePort = port
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"port":      servicePort,
	})
}
