package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/readypro"
)

func exportRows() ([]models.ListingRow, []string) {
	columns := []string{"SKU", "Codice(ASIN)", "Sito", "Descrizione", "Prz.aggiornato", "Qta"}
	rows := []models.ListingRow{
		{
			SKU:          "SKU-1",
			ProductCode:  "B000000001",
			Marketplace:  "Italia - Amazon.it",
			ListingPrice: models.Float64Ptr(19.9),
			Extra: map[string]string{
				"SKU": "SKU-1", "Codice(ASIN)": "B000000001", "Sito": "Italia - Amazon.it",
				"Descrizione": "Cavo HDMI", "Prz.aggiornato": "19,90", "Qta": "3",
			},
		},
		{
			SKU:         "SKU-2",
			ProductCode: "B000000002",
			Marketplace: "Francia - Amazon.fr",
			Extra: map[string]string{
				"SKU": "SKU-2", "Codice(ASIN)": "B000000002", "Sito": "Francia - Amazon.fr",
				"Descrizione": "=cmd|calc", "Prz.aggiornato": "", "Qta": "1",
			},
		},
	}
	return rows, columns
}

func TestWriteReadyPro(t *testing.T) {
	rows, columns := exportRows()
	out, err := WriteReadyPro(rows, columns)
	require.NoError(t, err)

	content := string(out)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"), "output must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(content, "\uFEFF"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SKU;Codice(ASIN);Sito;Descrizione;Prz.aggiornato;Qta", lines[0])
	assert.Equal(t, "SKU-1;B000000001;Italia - Amazon.it;Cavo HDMI;19,90;3", lines[1])

	// Absent price stays empty; formula-triggering text gets neutralized.
	assert.Contains(t, lines[2], "'=cmd|calc")
	assert.True(t, strings.HasSuffix(lines[2], ";;1"), "line: %q", lines[2])
}

func TestWriteReadyProRoundsUpdatedPrice(t *testing.T) {
	rows, columns := exportRows()
	rows[0].ListingPrice = models.Float64Ptr(17.909999)
	out, err := WriteReadyPro(rows, columns)
	require.NoError(t, err)
	assert.Contains(t, string(out), ";17,91;")
}

func TestWriteReadyProRoundTripsThroughParser(t *testing.T) {
	rows, columns := exportRows()
	out, err := WriteReadyPro(rows, columns)
	require.NoError(t, err)

	result, err := readypro.NewParser().Parse(strings.NewReader(string(out)), "export.csv")
	require.NoError(t, err)
	assert.Equal(t, columns, result.Columns)
	require.Len(t, result.Rows, 2)
	require.NotNil(t, result.Rows[0].ListingPrice)
	assert.Equal(t, 19.9, *result.Rows[0].ListingPrice)
	assert.Nil(t, result.Rows[1].ListingPrice)
}
