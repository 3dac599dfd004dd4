package api

import (
	"errors"   // Error inspection
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup
	"strconv"  // Path parameter parsing
	"strings"  // Tag parsing
	"sync"     // One-time validator setup

	"krishisaarthi/internal/domain"     // Domain errors
	"krishisaarthi/internal/middleware" // Context keys

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin request binding
	"github.com/go-playground/validator/v10" // Binding validator
	"github.com/sirupsen/logrus"             // Logging library
)

var tagNamesOnce sync.Once

// registerTagNames makes binding errors report JSON or form field names
func registerTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// respondError writes the status and body for a service failure. Unexpected
// failures are logged and hidden behind a static message.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var de *domain.Error
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "details": ve.Fields})
	case errors.As(err, &de):
		c.JSON(statusFor(de.Kind), gin.H{"error": de.Message})
	default:
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,                    // HTTP method
			"path":    c.FullPath(),                        // Route pattern
			"user_id": c.GetUint(middleware.ContextUserID), // Caller, 0 when anonymous
			"error":   err.Error(),                         // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func statusFor(kind error) int {
	switch kind {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrUnauthenticated:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict, domain.ErrInvalidState:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// bindError reports a request that failed to bind, with per-field details when available
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

// idParam parses a numeric path parameter, writing a 400 when it is malformed
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
