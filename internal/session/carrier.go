package session

import (
	"net/http" // Cookie primitives
	"time"     // Cookie expiry

	"krishisaarthi/internal/utils" // Session codec

	"github.com/gin-gonic/gin" // Gin web framework
)

// CookieName is the cookie holding the signed session token
const CookieName = "token"

// Carrier binds the session codec to the HTTP cookie
type Carrier struct {
	secret string // JWT signing key
	secure bool   // Secure flag, set in production
}

// NewCarrier creates a carrier signing with secret
func NewCarrier(secret string, secure bool) *Carrier {
	return &Carrier{secret: secret, secure: secure}
}

// Login encodes the principal and sets the session cookie
func (s *Carrier) Login(c *gin.Context, p utils.Principal) (string, error) {
	token, err := utils.GenerateJWT(p, s.secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// Logout overwrites the session cookie with an empty, already expired one
func (s *Carrier) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSession returns the decoded session claims, or nil when the cookie is
// missing or does not verify
func (s *Carrier) GetSession(c *gin.Context) *utils.Claims {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := utils.ParseJWT(token, s.secret)
	if err != nil {
		return nil
	}
	return claims
}
