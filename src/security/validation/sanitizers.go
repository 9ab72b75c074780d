package validation

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strictHTMLPolicy strips every HTML tag and attribute. Feed cells are free
// text that gets echoed back to the grid client, so they are sanitized at
// ingestion.
var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText removes all HTML tags, attributes, and non-printable
// characters from an input string.
func SanitizeText(s string) string {
	return strings.TrimSpace(StripUnprintable(strictHTMLPolicy.Sanitize(s)))
}

// SanitizeForFormulaInjection prepends a single quote when the string starts
// with a character that triggers formula execution in Excel/LibreOffice,
// preventing CSV injection in the exported feed.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}

	switch rune(trimmed[0]) {
	case '=', '+', '@', '\t', '\r':
		return "'" + s
	case '-':
		// Negative numbers are legitimate; only quote non-numeric text.
		if _, err := parseLeadingNumber(trimmed); err != nil {
			return "'" + s
		}
	}
	return s
}

func parseLeadingNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// StripUnprintable removes non-printable characters, allowing common
// whitespace like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
