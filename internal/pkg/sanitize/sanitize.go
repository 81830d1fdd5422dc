// Package sanitize strips markup from free text submitted by users before it
// is stored and later rendered by clients.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML and trims surrounding whitespace. Entities produced
// by the policy are unescaped again so plain text round-trips unchanged.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
