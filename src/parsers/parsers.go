// Package parsers holds the helpers shared by every file-format parser:
// text decoding with encoding fallback, decimal normalization for feeds
// that use comma decimals, and the error type raised when a required
// column is missing.
package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatError reports an input file that does not match its expected format,
// typically because required columns are absent.
type FormatError struct {
	File    string
	Reason  string
	Missing []string
}

func (e *FormatError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("file %q: missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("file %q: %s", e.File, e.Reason)
}

// DecodeText reads the whole input and returns it as UTF-8 text.
// A UTF-8 BOM is stripped when present; input that is not valid UTF-8 is
// decoded as Latin-1, which never fails. This mirrors the encodings seen
// in real marketplace exports (UTF-8 with BOM, plain UTF-8, Latin-1).
func DecodeText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	raw = stripBOM(raw)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	// Latin-1: every byte maps directly to the code point of the same value.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// NormalizeDecimal prepares a feed number for parsing: trims whitespace and
// quotes, drops thousands apostrophes, and turns a decimal comma into a
// decimal point.
func NormalizeDecimal(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return cleaned
}

// ParseNullableFloat parses a feed number, returning nil when the cell is
// empty or not numeric. Bad numeric cells are a data-quality problem, not
// an error: downstream formulas treat nil as absence.
func ParseNullableFloat(s string) *float64 {
	cleaned := NormalizeDecimal(s)
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// HeaderIndex maps column names to their position in a CSV header row.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// MissingColumns returns the required column names absent from the index.
func MissingColumns(idx map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Field returns the trimmed record value for a named column, or "" when the
// record is shorter than the header promised.
func Field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
