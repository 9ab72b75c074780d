// Package feeschedule parses the category x marketplace commission CSV.
// The first column holds the category label; every other column is a
// fee-schedule column key (e.g. "Amazon.it") whose cells carry free
// commission text, possibly tiered.
package feeschedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/security/validation"
)

const colCategory = "Category"

// Parser implements parsing of commission fee schedule CSV files.
type Parser struct{}

// NewParser creates a new instance of the fee schedule parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a fee schedule CSV. The separator is detected from the header
// line (';' wins over ',' since marketplace columns never contain ';').
// Category labels and commission text are sanitized: they are free text
// that ends up echoed back to clients.
func (p *Parser) Parse(file io.Reader, filename string) (*models.FeeSchedule, error) {
	content, err := parsers.DecodeText(file)
	if err != nil {
		return nil, fmt.Errorf("feeschedule parser: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = detectSeparator(content)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV header: %v", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idx := parsers.HeaderIndex(header)
	if missing := parsers.MissingColumns(idx, []string{colCategory}); len(missing) > 0 {
		return nil, &parsers.FormatError{File: filename, Missing: missing}
	}

	var columns []string
	for _, name := range header {
		if name != colCategory && name != "" {
			columns = append(columns, name)
		}
	}
	if len(columns) == 0 {
		return nil, &parsers.FormatError{File: filename, Reason: "no marketplace columns next to the Category column"}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV records: %v", err)}
	}

	schedule := models.NewFeeSchedule(columns)
	for _, record := range records {
		category := validation.SanitizeText(parsers.Field(record, idx, colCategory))
		if category == "" {
			continue
		}
		for _, column := range columns {
			text := validation.SanitizeText(parsers.Field(record, idx, column))
			if text == "" {
				continue
			}
			schedule.SetCell(category, column, text)
		}
	}

	return schedule, nil
}

// detectSeparator picks ';' when the first line contains one, ',' otherwise.
func detectSeparator(content string) rune {
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.ContainsRune(firstLine, ';') {
		return ';'
	}
	return ','
}
