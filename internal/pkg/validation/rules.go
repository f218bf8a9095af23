package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns and limits
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Username: letters, digits, dot, underscore, hyphen; 3-30 chars
	UsernamePattern = `^[a-zA-Z0-9._\-]{3,30}$`

	// Password min length
	PasswordMinLength = 8

	// Contact message field limits
	ContactSubjectMinLength = 5
	ContactMessageMinLength = 10

	// Scan review field limits
	ReviewFieldMinLength = 10
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// ValidEmail reports whether the value looks like an email address.
func ValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// ValidUsername reports whether the value is an acceptable login name.
func ValidUsername(value string) bool {
	return CompiledPatterns.Username.MatchString(value)
}

// TrimmedMinLength reports whether the value, after trimming surrounding
// whitespace, is at least min characters long. Length is counted in runes so
// multibyte input is not penalized.
func TrimmedMinLength(value string, min int) bool {
	return len([]rune(strings.TrimSpace(value))) >= min
}
