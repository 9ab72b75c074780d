// Package keepa parses competitor buy-box price snapshots exported from
// Keepa. Both the Italian and the English CSV header variants are accepted.
package keepa

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
)

const (
	colLocale = "Locale"
	colASIN   = "ASIN"
)

// Header variants for the buy-box price and category columns.
var (
	buyBoxColumns   = []string{"Buy Box 🚚: Corrente", "Buy Box: Current"}
	categoryColumns = []string{"Gruppo di visualizzazione del sito web: Nome", "Categories: Root"}
)

// Parser implements parsing of Keepa competitor snapshot CSV exports.
type Parser struct{}

// NewParser creates a new instance of the Keepa parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a Keepa CSV export into competitor snapshots. Locale codes
// are lowercased; buy-box prices are cleaned of currency symbols and
// decimal commas, unparsable prices become absent.
func (p *Parser) Parse(file io.Reader, filename string) ([]models.CompetitorSnapshot, error) {
	content, err := parsers.DecodeText(file)
	if err != nil {
		return nil, fmt.Errorf("keepa parser: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV header: %v", err)}
	}
	idx := parsers.HeaderIndex(header)

	buyBoxCol, ok := firstPresent(idx, buyBoxColumns)
	if !ok {
		return nil, &parsers.FormatError{File: filename, Missing: []string{buyBoxColumns[0]}}
	}
	categoryCol, ok := firstPresent(idx, categoryColumns)
	if !ok {
		return nil, &parsers.FormatError{File: filename, Missing: []string{categoryColumns[0]}}
	}
	if missing := parsers.MissingColumns(idx, []string{colLocale, colASIN}); len(missing) > 0 {
		return nil, &parsers.FormatError{File: filename, Missing: missing}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsers.FormatError{File: filename, Reason: fmt.Sprintf("failed to read CSV records: %v", err)}
	}

	snapshots := make([]models.CompetitorSnapshot, 0, len(records))
	for _, record := range records {
		snapshots = append(snapshots, models.CompetitorSnapshot{
			ProductCode: parsers.Field(record, idx, colASIN),
			Locale:      strings.ToLower(parsers.Field(record, idx, colLocale)),
			BuyBoxPrice: parsePrice(parsers.Field(record, idx, buyBoxCol)),
			Category:    parsers.Field(record, idx, categoryCol),
		})
	}

	return snapshots, nil
}

// parsePrice cleans a Keepa price cell ("1.234,56 €") before parsing.
func parsePrice(s string) *float64 {
	cleaned := strings.ReplaceAll(s, "€", "")
	cleaned = strings.Join(strings.Fields(cleaned), "")
	return parsers.ParseNullableFloat(cleaned)
}

func firstPresent(idx map[string]int, candidates []string) (string, bool) {
	for _, name := range candidates {
		if _, ok := idx[name]; ok {
			return name, true
		}
	}
	return "", false
}
