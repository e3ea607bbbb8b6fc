// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Make converts a title into its URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed into single hyphens, no leading or
// trailing hyphen. "Hello World" -> "hello-world".
func Make(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// WithSuffix returns the slug for the nth duplicate of a title: the base slug
// for n == 1, then "-2", "-3", and so on.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
