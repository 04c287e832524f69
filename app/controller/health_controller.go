package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController answers liveness checks
type HealthController struct{}

// NewHealthController creates a new HealthController
func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health handles GET /api/health
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errorResponse is the body written for every failed request
func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
