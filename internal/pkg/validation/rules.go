package validation

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation rule patterns
var (
	UsernamePattern = `^[A-Za-z0-9]+$`
	EmailPattern    = `^[^@]+@[^@]+\.[^@]+$`
	WebsitePattern  = `^https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+`

	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 8
	TextMaxLength     = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username *regexp.Regexp
	Email    *regexp.Regexp
	Website  *regexp.Regexp
	Upper    *regexp.Regexp
	Lower    *regexp.Regexp
	Digit    *regexp.Regexp
	Special  *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
	Email:    regexp.MustCompile(EmailPattern),
	Website:  regexp.MustCompile(WebsitePattern),
	Upper:    regexp.MustCompile(`[A-Z]`),
	Lower:    regexp.MustCompile(`[a-z]`),
	Digit:    regexp.MustCompile(`[0-9]`),
	Special:  regexp.MustCompile(`[^A-Za-z0-9]`),
}

// ImageExtensions lists accepted profile image and logo extensions
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif"}

// StringValidation is a small builder for single-field string checks
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value, Required: true}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Lengths count characters, not bytes.
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// UsernameFormat returns the first failing format rule for a non-empty username
func UsernameFormat(username string) string {
	switch {
	case !NewStringValidation(username).WithMinLength(UsernameMinLength).Validate():
		return "Your username must be at least 3 characters long."
	case !NewStringValidation(username).WithMaxLength(UsernameMaxLength).Validate():
		return "Your username cannot exceed 50 characters."
	case !NewStringValidation(username).WithPattern(CompiledPatterns.Username).Validate():
		return "Your username can only contain letters and numbers."
	}
	return ""
}

// Email returns the first failing rule for an email address
func Email(email string) string {
	switch {
	case email == "":
		return "Email address is required."
	case !NewStringValidation(email).WithMaxLength(TextMaxLength).Validate():
		return "Your email address cannot exceed 100 characters."
	case !CompiledPatterns.Email.MatchString(email):
		return "Invalid email address."
	}
	return ""
}

// PasswordComplexity checks a non-empty password. subject prefixes each
// message ("Password", "New password").
func PasswordComplexity(password, subject string) string {
	switch {
	case utf8.RuneCountInString(password) < PasswordMinLength:
		return subject + " must be at least 8 characters long."
	case !CompiledPatterns.Upper.MatchString(password):
		return subject + " must contain at least one uppercase letter."
	case !CompiledPatterns.Lower.MatchString(password):
		return subject + " must contain at least one lowercase letter."
	case !CompiledPatterns.Digit.MatchString(password):
		return subject + " must contain at least one digit."
	case !CompiledPatterns.Special.MatchString(password):
		return subject + " must contain at least one special character."
	}
	return ""
}

// RequiredText checks a required free-text field capped at 100 characters.
// label is the human name used in messages ("Full name", "University").
func RequiredText(value, label string) string {
	switch {
	case value == "":
		return label + " is required."
	case !NewStringValidation(value).WithMaxLength(TextMaxLength).Validate():
		return label + " cannot exceed 100 characters."
	}
	return ""
}

// Website checks an optional company URL
func Website(website string) string {
	if website != "" && !CompiledPatterns.Website.MatchString(website) {
		return "Please enter a valid company website URL."
	}
	return ""
}

// Extension returns the lower-cased extension without the dot
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsImage reports whether filename has an accepted image extension
func IsImage(filename string) bool {
	ext := Extension(filename)
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsPDF reports whether filename has a .pdf extension
func IsPDF(filename string) bool {
	return Extension(filename) == "pdf"
}
