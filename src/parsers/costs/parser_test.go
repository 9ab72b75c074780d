package costs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
)

const sampleCosts = `Codice;Prezzo medio;Fornitore
SKU-1;12,50;Fornitore A
SKU-2;8,00;Fornitore B
SKU-1;99,99;Fornitore C
SKU-3;;Fornitore A
`

func TestParse(t *testing.T) {
	entries, err := NewParser().Parse(strings.NewReader(sampleCosts), "costi.csv")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "SKU-1", entries[0].SKU)
	require.NotNil(t, entries[0].PurchaseCost)
	// Duplicate SKU keeps the first occurrence.
	assert.Equal(t, 12.5, *entries[0].PurchaseCost)

	// Empty cost cell becomes absent; the merge step defaults it to 0.
	assert.Equal(t, "SKU-3", entries[2].SKU)
	assert.Nil(t, entries[2].PurchaseCost)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("Codice;Fornitore\nSKU-1;A\n"), "costi.csv")
	require.Error(t, err)

	var formatErr *parsers.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, []string{"Prezzo medio"}, formatErr.Missing)
}
