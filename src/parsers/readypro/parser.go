// Package readypro parses the Ready Pro marketplace listings export, the
// primary input feed. The file uses ';' as separator and a decimal comma.
package readypro

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
)

// Source feed column names. Internal names are semantic; these are the
// literal tokens of the Ready Pro export.
const (
	ColSKU         = "SKU"
	ColProductCode = "Codice(ASIN)"
	ColMarketplace = "Sito"
	ColPrice       = "Prz.aggiornato"
)

var requiredColumns = []string{ColSKU, ColProductCode, ColMarketplace, ColPrice}

// Result carries the parsed listing rows together with the original header
// order, which the export layer needs to rebuild the feed.
type Result struct {
	Rows    []models.ListingRow
	Columns []string
}

// Parser implements parsing of Ready Pro listing exports.
type Parser struct{}

// NewParser creates a new instance of the Ready Pro parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a Ready Pro CSV export and converts its rows into listing
// rows. Every original column is preserved verbatim in the row's Extra map
// so the export can reproduce the feed.
func (p *Parser) Parse(file io.Reader, filename string) (*Result, error) {
	content, err := parsers.DecodeText(file)
	if err != nil {
		return nil, fmt.Errorf("readypro parser: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV header: %v", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idx := parsers.HeaderIndex(header)
	if missing := parsers.MissingColumns(idx, requiredColumns); len(missing) > 0 {
		return nil, &parsers.FormatError{File: filename, Missing: missing}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV records: %v", err)}
	}

	rows := make([]models.ListingRow, 0, len(records))
	for _, record := range records {
		extra := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				extra[name] = record[i]
			}
		}

		rows = append(rows, models.ListingRow{
			SKU:          parsers.Field(record, idx, ColSKU),
			ProductCode:  parsers.Field(record, idx, ColProductCode),
			Marketplace:  parsers.Field(record, idx, ColMarketplace),
			ListingPrice: parsers.ParseNullableFloat(parsers.Field(record, idx, ColPrice)),
			Extra:        extra,
		})
	}

	return &Result{Rows: rows, Columns: header}, nil
}
