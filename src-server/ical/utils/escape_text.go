package utils

import "strings"

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// Escape a TEXT property value (RFC5545 3.3.11): backslashes, semicolons and
// commas get a leading backslash; every line break becomes the two
// characters `\n`.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
