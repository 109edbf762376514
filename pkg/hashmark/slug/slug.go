// Package slug normalizes arbitrary text into canonical label slugs.
//
// A valid slug is lowercase, restricted to [a-z0-9-], has no leading,
// trailing, or repeated hyphens, is at least two characters long, and is
// not a stopword. Normalization is total: any input is either mapped onto
// a valid slug or rejected, never passed through malformed.
package slug

import "strings"

// MinLength is the minimum length of an accepted slug.
const MinLength = 2

// quoteChars are stripped entirely before the character sweep so that
// "don't" becomes "dont" rather than "don-t".
const quoteChars = "\"'`‘’“”"

// Normalize maps raw text onto a canonical slug. The second return value
// is false when the input reduces to nothing usable: empty, shorter than
// MinLength, or a stopword.
func Normalize(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimLeft(s, "#")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(quoteChars, r):
			// dropped
		case r == '&':
			b.WriteString(" and ")
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		default:
			b.WriteByte(' ')
		}
	}

	s = strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if len(s) < MinLength || IsStopword(s) {
		return "", false
	}
	return s, true
}

// IsValid reports whether s already satisfies the slug grammar, including
// the length and stopword constraints.
func IsValid(s string) bool {
	if len(s) < MinLength || IsStopword(s) {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
