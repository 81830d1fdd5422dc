package helpers

import "strings"

// FilterAll is the sentinel filter value meaning "no restriction"
const FilterAll = "all"

// ActiveFilter returns the trimmed filter value and whether it restricts results.
// Empty values and "all" (any case) do not.
func ActiveFilter(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, FilterAll) {
		return "", false
	}
	return v, true
}

// LikePattern wraps a value for a substring ILIKE match, escaping wildcards
func LikePattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}

// StringPtr returns nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
