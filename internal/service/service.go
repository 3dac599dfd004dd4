// Package service holds the marketplace business rules. Every mutation
// re-reads the acting user from the store, so a role change takes effect on
// the next request regardless of what the session token says.
package service

import (
	"errors"       // Error inspection
	"net/url"      // Artifact URL checks
	"slices"       // Role membership
	"strings"      // Input normalisation
	"unicode/utf8" // Length rules count characters

	"krishisaarthi/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// authorize loads the acting user and checks the stored role against roles.
// An unknown actor is treated like a wrong role.
func authorize(tx *gorm.DB, actorID uint, denial string, roles ...domain.Role) (*domain.User, error) {
	var user domain.User
	if err := tx.First(&user, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Forbidden(denial)
		}
		return nil, err
	}
	if !slices.Contains(roles, user.Role) {
		return nil, domain.Forbidden(denial)
	}
	return &user, nil
}

// notFoundOr maps a missing record to a NotFound failure and passes anything else through
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(msg)
	}
	return err
}

// trimmedPtr trims s and collapses blank values to nil
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// fieldErrors collects per-field validation messages
type fieldErrors map[string]string

// minLen records msg for field when the trimmed value is shorter than n characters
func (f fieldErrors) minLen(field, value string, n int, msg string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		f[field] = msg
	}
}

// absoluteURL records msg for field unless value is an absolute http(s) URL
func (f fieldErrors) absoluteURL(field, value string) {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		f[field] = "must be an absolute http(s) URL"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: f}
}
