package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// strips spaces, collapses inner whitespace, remove trailing period and
// normalizes to NFC so accented titles compare equal
func CleanupString(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, ".")
	return s
}
