// Package costs parses the product cost list CSV, which maps SKUs to their
// average purchase cost. The file uses ';' as separator and a decimal comma.
package costs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
)

const (
	colSKU  = "Codice"
	colCost = "Prezzo medio"
)

var requiredColumns = []string{colSKU, colCost}

// Parser implements parsing of product cost CSV files.
type Parser struct{}

// NewParser creates a new instance of the cost list parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a cost CSV into cost entries. Duplicate SKUs keep the first
// occurrence; unparsable cost cells become absent.
func (p *Parser) Parse(file io.Reader, filename string) ([]models.CostEntry, error) {
	content, err := parsers.DecodeText(file)
	if err != nil {
		return nil, fmt.Errorf("costs parser: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV header: %v", err)}
	}
	idx := parsers.HeaderIndex(header)
	if missing := parsers.MissingColumns(idx, requiredColumns); len(missing) > 0 {
		return nil, &parsers.FormatError{File: filename, Missing: missing}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV records: %v", err)}
	}

	seen := make(map[string]bool, len(records))
	entries := make([]models.CostEntry, 0, len(records))
	for _, record := range records {
		sku := parsers.Field(record, idx, colSKU)
		if sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		entries = append(entries, models.CostEntry{
			SKU:          sku,
			PurchaseCost: parsers.ParseNullableFloat(parsers.Field(record, idx, colCost)),
		})
	}

	return entries, nil
}
