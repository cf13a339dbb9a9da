package password

import (
	"strings"
	"unicode"
)

const minLength = 8

const specialChars = `!@#$%^&*(),.?":{}|<>`

// PolicyError reports which strength rule a candidate password failed.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

// CheckStrength validates a candidate password against the account policy.
// Rules are checked in order and the first failure is returned: minimum
// length, uppercase letter, lowercase letter, digit, special character.
func CheckStrength(candidate string) error {
	if len(candidate) < minLength {
		return &PolicyError{Reason: "Password must be at least 8 characters"}
	}
	if !strings.ContainsFunc(candidate, unicode.IsUpper) {
		return &PolicyError{Reason: "Password must contain at least one uppercase letter"}
	}
	if !strings.ContainsFunc(candidate, unicode.IsLower) {
		return &PolicyError{Reason: "Password must contain at least one lowercase letter"}
	}
	if !strings.ContainsFunc(candidate, unicode.IsDigit) {
		return &PolicyError{Reason: "Password must contain at least one number"}
	}
	if !strings.ContainsAny(candidate, specialChars) {
		return &PolicyError{Reason: "Password must contain at least one special character"}
	}

	return nil
}
