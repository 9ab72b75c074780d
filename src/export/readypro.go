// Package export rebuilds the Ready Pro listings feed from the working
// table so the file can be re-imported into Ready Pro unchanged except
// for the updated prices.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/readypro"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/security/validation"
)

// utf8BOM is prepended so Excel opens the file with the right encoding,
// matching the original Ready Pro export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteReadyPro serializes the working table back into Ready Pro's CSV
// format: ';' separator, decimal comma, UTF-8 BOM, and only the columns of
// the original upload in their original order. Derived columns never leak
// into the feed.
func WriteReadyPro(rows []models.ListingRow, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writer := csv.NewWriter(&buf)
	writer.Comma = ';'

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("export: failed to write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = cellValue(row, column)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("export: failed to write row for SKU %q: %w", row.SKU, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(row models.ListingRow, column string) string {
	switch column {
	case readypro.ColSKU:
		return validation.SanitizeForFormulaInjection(row.SKU)
	case readypro.ColProductCode:
		return validation.SanitizeForFormulaInjection(row.ProductCode)
	case readypro.ColMarketplace:
		return validation.SanitizeForFormulaInjection(row.Marketplace)
	case readypro.ColPrice:
		return formatPrice(row.ListingPrice)
	}
	return validation.SanitizeForFormulaInjection(row.Extra[column])
}

// formatPrice renders a price with two decimals and a decimal comma, the
// numeric format Ready Pro expects. Absent prices stay empty.
func formatPrice(price *float64) string {
	if price == nil {
		return ""
	}
	rounded := math.Round(*price*100) / 100
	return strings.ReplaceAll(strconv.FormatFloat(rounded, 'f', 2, 64), ".", ",")
}
