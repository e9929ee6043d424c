// internal/routing/slug.go
//
// Slug helpers for public page paths.
//
// • MakeSlug(title) ─ converts arbitrary text into a URL-safe slug restricted
//   to ASCII a-z, 0-9 and “-”.
// • ValidSlug(s)    ─ reports whether s is already canonical, within length
//   bounds, and not reserved.
// • Reserved(s)     ─ first-level paths owned by the service itself.
//
// Rules (MakeSlug)
// ----------------
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one “-”.
// 3. Trim leading / trailing “-”.
// 4. Truncate to MaxSlugLen, trimming a dash left at the cut.
//
// Notes
// -----
// • No Unicode transliteration; non-ASCII input collapses to dashes.
// • MakeSlug may return a string shorter than MinSlugLen; callers validate.

package routing

import (
	"strings"
)

const (
	MinSlugLen = 3
	MaxSlugLen = 40
)

// reserved paths cannot be claimed as page slugs.
var reserved = map[string]struct{}{
	"api": {}, "admin": {}, "app": {}, "auth": {}, "book": {}, "dashboard": {},
	"domains": {}, "help": {}, "l": {}, "login": {}, "logout": {}, "metrics": {},
	"pricing": {}, "settings": {}, "signup": {}, "static": {}, "support": {}, "www": {},
}

// MakeSlug converts title → lower-kebab ASCII.
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	return slug
}

// ValidSlug reports whether s is canonical, 3–40 bytes, and not reserved.
func ValidSlug(s string) bool {
	if len(s) < MinSlugLen || len(s) > MaxSlugLen {
		return false
	}
	if MakeSlug(s) != s {
		return false
	}
	return !Reserved(s)
}

// Reserved reports whether s collides with a service path.
func Reserved(s string) bool {
	_, ok := reserved[s]
	return ok
}
