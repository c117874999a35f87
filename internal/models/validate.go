package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Format rules enforced before any store call. Client-side input masks
// apply the same rules, but the service re-validates and never assumes
// them.
var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	rucRegex   = regexp.MustCompile(`^[0-9]{10}$`)
	ciRegex    = regexp.MustCompile(`^[0-9]{13}$`)
)

// ValidEmail reports whether s matches the accepted email grammar.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidNationalID accepts a 10-digit RUC or a 13-digit CI, nothing else.
func ValidNationalID(s string) bool {
	return rucRegex.MatchString(s) || ciRegex.MatchString(s)
}

// Validate checks every mutable field of a user record. The password hash
// is not covered here: it is produced server-side and mutated only through
// the change-password operation.
func (u *User) Validate() error {
	if strings.TrimSpace(u.FirstNames) == "" {
		return fmt.Errorf("%w: nombres must not be empty", ErrValidation)
	}
	if strings.TrimSpace(u.LastNames) == "" {
		return fmt.Errorf("%w: apellidos must not be empty", ErrValidation)
	}
	if !ValidEmail(u.Email) {
		return fmt.Errorf("%w: malformed email", ErrValidation)
	}
	if !ValidNationalID(u.NationalID) {
		return fmt.Errorf("%w: ci_ruc must be 10 or 13 digits", ErrValidation)
	}
	return nil
}
