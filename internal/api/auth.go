package api

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/domain"     // Domain models
	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules
	"krishisaarthi/internal/session"    // Session cookie carrier
	"krishisaarthi/internal/utils"      // Session claims

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the registration form
type RegisterRequest struct {
	Email            string      `json:"email" binding:"required,email"`                                                          // Login email
	Password         string      `json:"password" binding:"required,min=8"`                                                       // Plain password, hashed before storage
	Role             domain.Role `json:"role" binding:"required,oneof=FARMER SOIL_TEST_COMPANY SEED_PROVIDER MARKET_AGENT BUYER"` // Marketplace role
	Name             *string     `json:"name"`                                                                                    // Display name
	FarmerCardNumber *string     `json:"farmer_card_number"`                                                                      // Required for farmers
	CompanyName      *string     `json:"company_name"`                                                                            // Required for companies
	Address          *string     `json:"address"`                                                                                 // Postal address
	ContactNumber    *string     `json:"contact_number"`                                                                          // Phone number
}

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Plain password
}

// principalOf builds the session principal for a stored user
func principalOf(u *domain.User) utils.Principal {
	return utils.Principal{UserID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// RegisterHandler creates an account
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		user, err := users.Register(c.Request.Context(), service.RegisterInput{
			Email:            req.Email,
			Password:         req.Password,
			Role:             req.Role,
			Name:             req.Name,
			FarmerCardNumber: req.FarmerCardNumber,
			CompanyName:      req.CompanyName,
			Address:          req.Address,
			ContactNumber:    req.ContactNumber,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler checks credentials and sets the session cookie
func LoginHandler(users *service.UserService, carrier *session.Carrier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		// Sign the session and set the cookie
		if _, err := carrier.Login(c, principalOf(user)); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to issue session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // User ID
			"role":    user.Role, // Stored role
		}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler(carrier *session.Carrier) gin.HandlerFunc {
	return func(c *gin.Context) {
		carrier.Logout(c)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// MeHandler returns the signed-in user's stored profile
func MeHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Get(c.Request.Context(), c.GetUint(middleware.ContextUserID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
