package controllers

import (
	"errors"
	"regexp"

	"github.com/dmorell/atelier/internal/perrors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// validateEmailAndPassword runs before any identity call so malformed
// credentials fail fast with a descriptive 400 instead of a provider
// error.
func validateEmailAndPassword(email, password string) error {
	if email == "" || password == "" {
		return perrors.NewErrInvalidRequest("Missing required fields: email or password", errors.New("missing credentials"))
	}

	if !emailPattern.MatchString(email) {
		return perrors.NewErrInvalidRequest("Invalid email format", errors.New("email failed pattern check"))
	}

	if len(password) < minPasswordLength {
		return perrors.NewErrInvalidRequest("Password must be at least 8 characters long", errors.New("password too short"))
	}

	return nil
}
