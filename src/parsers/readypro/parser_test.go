package readypro

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
)

const sampleExport = `SKU;Codice(ASIN);Sito;Descrizione;Prz.aggiornato;Qta
SKU-1;B000000001;Italia - Amazon.it;Cavo HDMI;19,90;3
SKU-2;B000000002;Francia - Amazon.fr;Cable HDMI;24,90;1
SKU-3;B000000003;Italia - Amazon.it;Adattatore;;5
`

func TestParse(t *testing.T) {
	result, err := NewParser().Parse(strings.NewReader(sampleExport), "export.csv")
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	assert.Equal(t, []string{"SKU", "Codice(ASIN)", "Sito", "Descrizione", "Prz.aggiornato", "Qta"}, result.Columns)

	first := result.Rows[0]
	assert.Equal(t, "SKU-1", first.SKU)
	assert.Equal(t, "B000000001", first.ProductCode)
	assert.Equal(t, "Italia - Amazon.it", first.Marketplace)
	require.NotNil(t, first.ListingPrice)
	assert.Equal(t, 19.9, *first.ListingPrice)
	assert.Equal(t, "Cavo HDMI", first.Extra["Descrizione"])
	assert.Equal(t, "3", first.Extra["Qta"])

	// Empty price cell becomes absent, not zero.
	assert.Nil(t, result.Rows[2].ListingPrice)
}

func TestParseBOMAndDecimalComma(t *testing.T) {
	result, err := NewParser().Parse(strings.NewReader("\uFEFF"+sampleExport), "export.csv")
	require.NoError(t, err)
	require.NotNil(t, result.Rows[1].ListingPrice)
	assert.Equal(t, 24.9, *result.Rows[1].ListingPrice)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("SKU;Sito\nSKU-1;Italia - Amazon.it\n"), "broken.csv")
	require.Error(t, err)

	var formatErr *parsers.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "broken.csv", formatErr.File)
	assert.Equal(t, []string{"Codice(ASIN)", "Prz.aggiornato"}, formatErr.Missing)
}
