package ftauth

import (
	"regexp"
	"strings"
)

// emailPattern accepts the practical shape of an address: one @, a non-empty
// local part, and a dotted domain. Deliverability is proven by the
// verification mail, not the regexp.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

// normalizeEmail lowercases and trims an address so lookups and uniqueness
// checks are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailLocalPart returns everything before the first @.
func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
