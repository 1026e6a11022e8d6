package types

import (
	"errors"
	"strings"
)

var (
	ErrFirstNameRequired = errors.New("firstName is required")
	ErrLastNameRequired  = errors.New("lastName is required")
)

// ValidateNewUser mirrors the backend's non-empty name rule so forms can
// reject obviously bad input before a round trip. The access layer itself
// does not call it; the server stays the authority.
func ValidateNewUser(u NewUser) error {
	var errs []error
	if strings.TrimSpace(u.FirstName) == "" {
		errs = append(errs, ErrFirstNameRequired)
	}
	if strings.TrimSpace(u.LastName) == "" {
		errs = append(errs, ErrLastNameRequired)
	}
	return errors.Join(errs...)
}
