package validation

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Elettronica", want: "Elettronica"},
		{in: "<b>Elettronica</b>", want: "Elettronica"},
		{in: "<script>alert(1)</script>Casa", want: "Casa"},
		{in: "  15% fino a 50€  ", want: "15% fino a 50€"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeText(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "=cmd|calc", want: "'=cmd|calc"},
		{in: "+12", want: "'+12"},
		{in: "@SUM(A1)", want: "'@SUM(A1)"},
		{in: "-HYPERLINK(...)", want: "'-HYPERLINK(...)"},
		{in: "-12,50", want: "-12,50"},
		{in: "SKU-1", want: "SKU-1"},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeForFormulaInjection(tc.in), "input %q", tc.in)
	}
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/vnd.ms-excel"))
	assert.Error(t, ValidateClientContentType("application/zip"))
	assert.Error(t, ValidateClientContentType("image/png"))
}

func TestValidateFileContent(t *testing.T) {
	detected, err := ValidateFileContent(bytes.NewReader([]byte("SKU;Sito\nA;B\n")))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)
}

func TestValidateFileContentLatin1(t *testing.T) {
	// Latin-1 accented text is not valid UTF-8 but still a CSV.
	content := append([]byte("Codice;Prezzo medio\ncaff"), 0xE8, ';', '1', '\n')
	_, err := ValidateFileContent(bytes.NewReader(content))
	assert.NoError(t, err)
}

func TestValidateFileContentRejectsBinary(t *testing.T) {
	_, err := ValidateFileContent(bytes.NewReader([]byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x01}))
	assert.Error(t, err)

	_, err = ValidateFileContent(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestValidateFileContentResetsReader(t *testing.T) {
	reader := bytes.NewReader([]byte("SKU;Sito\n"))
	_, err := ValidateFileContent(reader)
	require.NoError(t, err)

	buf := make([]byte, 3)
	n, err := reader.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "SKU", string(buf[:n]))
}
