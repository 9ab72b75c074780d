package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextStripsBOM(t *testing.T) {
	content, err := DecodeText(strings.NewReader("\uFEFFLocale,ASIN\nit,B0001"))
	require.NoError(t, err)
	assert.Equal(t, "Locale,ASIN\nit,B0001", content)
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	// 0xE8 is 'è' in Latin-1 and invalid as a standalone UTF-8 byte.
	raw := []byte{'c', 'a', 'f', 'f', 0xE8}
	content, err := DecodeText(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "caffè", content)
}

func TestNormalizeDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "12,50", want: "12.50"},
		{in: " 12.50 ", want: "12.50"},
		{in: "\"1'234,56\"", want: "1234.56"},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeDecimal(tc.in))
	}
}

func TestParseNullableFloat(t *testing.T) {
	v := ParseNullableFloat("12,50")
	require.NotNil(t, v)
	assert.Equal(t, 12.5, *v)

	assert.Nil(t, ParseNullableFloat(""))
	assert.Nil(t, ParseNullableFloat("n/d"))
	assert.Nil(t, ParseNullableFloat("12,50,00"))
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{File: "listini.csv", Missing: []string{"SKU", "Sito"}}
	assert.Contains(t, err.Error(), "listini.csv")
	assert.Contains(t, err.Error(), "SKU, Sito")
}
