// Package normalize canonicalizes user-supplied identity and list fields
// before they reach a store.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookups and the unique
// index both operate on the normalized form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses interior whitespace runs to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Skills splits a comma-delimited string into a trimmed ordered list,
// dropping empty items. "go, rust" becomes ["go","rust"].
func Skills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
