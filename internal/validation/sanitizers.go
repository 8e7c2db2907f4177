package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText strips HTML tags and unprintable characters and trims surrounding space.
// Entities escaped by the policy are decoded again since values are served as JSON, not HTML.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictHTMLPolicy.Sanitize(StripUnprintable(s))))
}

// SanitizeForFormulaInjection prefixes a single quote when a spreadsheet would read s as a formula.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}

	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StripUnprintable removes non-printable characters, keeping tab, newline and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
