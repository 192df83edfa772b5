// Package htmlsanitize strips markup from user-supplied free text.
// Post text, comment text, bios and descriptions are plain text; any
// HTML that arrives in them is removed, not escaped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Sanitize removes all HTML elements and attributes from s and trims
// surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
