// Package slug derives URL-safe lesson identifiers from free-text titles.
package slug

import "strings"

// Make lowercases the title, collapses every run of characters outside
// [a-z0-9] into a single hyphen, and trims leading and trailing hyphens.
// Idempotent: Make(Make(x)) == Make(x).
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pending := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
