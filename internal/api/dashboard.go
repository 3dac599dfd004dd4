package api

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// DashboardHandler returns the signed-in user's profile and role counters
func DashboardHandler(svc *service.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := svc.Get(c.Request.Context(), c.GetUint(middleware.ContextUserID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

// PageHandler answers a browser page route whose markup is served by the frontend
func PageHandler(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": page})
	}
}
