package utils

import (
	"errors" // Sentinel errors
	"fmt"    // Error wrapping
	"time"   // Time for token expiration

	"krishisaarthi/internal/domain" // Role type

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionTTL is the fixed validity window of a session token
const SessionTTL = 24 * time.Hour

// ErrInvalidToken is returned for tampered, mis-signed or expired tokens
var ErrInvalidToken = errors.New("invalid token")

// Principal is the set of facts about a logged-in user carried in the token
type Principal struct {
	UserID uint        `json:"user_id"` // User primary key
	Email  string      `json:"email"`   // Login email
	Role   domain.Role `json:"role"`    // Role at login time, a display hint only
	Name   *string     `json:"name,omitempty"`
}

// JWT Claims
type Claims struct {
	Principal            // Custom session claims
	jwt.RegisteredClaims // Standard JWT claims
}

// GenerateJWT creates a session token for the principal, valid for SessionTTL
func GenerateJWT(p Principal, secret string) (string, error) {
	return GenerateJWTAt(p, secret, time.Now())
}

// GenerateJWTAt creates a session token issued at the given instant
func GenerateJWTAt(p Principal, secret string, issuedAt time.Time) (string, error) {
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(SessionTTL)), // Token expires after SessionTTL
			IssuedAt:  jwt.NewNumericDate(issuedAt),                 // Issued at given time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a session token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil // Return claims if valid
	}
	return nil, ErrInvalidToken
}
