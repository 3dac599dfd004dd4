package middleware

import (
	"net/http" // HTTP status codes
	"slices"   // Role membership

	"krishisaarthi/internal/domain" // Domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ContextUser is the key under which RequireRole stores the stored user record
const ContextUser = "user"

// RequireRole checks the user's role from the database on each request. The
// role inside the session token is never trusted for authorization.
func RequireRole(db *gorm.DB, denial string, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": denial})
			return
		}
		// Check the stored role
		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": denial})
			return
		}
		c.Set(ContextUser, &user) // Expose the fresh record to handlers
		c.Next()
	}
}
