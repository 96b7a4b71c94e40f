package ical

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackFilename = "event"

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]`)

// Derive a download filename from an event title: accents are folded
// ("Séance" -> "seance"), everything is lower-cased and any remaining
// character outside [a-z0-9] becomes "_".
func Filename(title string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, title)
	if err != nil {
		folded = title
	}
	folded = cases.Lower(language.Und).String(strings.TrimSpace(folded))

	name := unsafeFilenameChars.ReplaceAllString(folded, "_")
	if strings.Trim(name, "_") == "" {
		name = fallbackFilename
	}
	return name + Extension
}
