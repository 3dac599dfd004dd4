package middleware

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/session" // Session cookie carrier

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by RequireSession
const (
	ContextUserID = "userID"
	ContextClaims = "claims"
)

// RequireSession validates the session cookie and stores the caller in the context
func RequireSession(carrier *session.Carrier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := carrier.GetSession(c) // Decode the session cookie
		// Check if a valid session is present
		if claims == nil {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ContextClaims, claims)        // Store claims in context
		c.Set(ContextUserID, claims.UserID) // Store userID in context
		c.Next()                            // Proceed to the next handler
	}
}

// DashboardGuard sends browsers without a session to the login page
func DashboardGuard(carrier *session.Carrier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := carrier.GetSession(c)
		if claims == nil {
			c.Redirect(http.StatusFound, "/login") // Redirect to login
			c.Abort()
			return
		}
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in browsers from the login pages to the dashboard
func RedirectIfAuthenticated(carrier *session.Carrier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if carrier.GetSession(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
