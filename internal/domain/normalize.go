package domain

import (
	"strings"
	"unicode"
)

// NormalizeHumanName is the stored form of display names, group names and vehicle labels.
// Invisible format and control characters are dropped, whitespace runs collapse to one
// space, and the ends are trimmed.
func NormalizeHumanName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
