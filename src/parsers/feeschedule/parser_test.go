package feeschedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const semicolonSchedule = `Category;Amazon.it;Amazon.fr
Elettronica;7.21%;7%
Casa e cucina;15% fino a 50€, 10% oltre;15%
`

const commaSchedule = `Category,Amazon.it,Amazon.de
Elettronica,7.21%,7%
Libri,n/d,15%
`

func TestParseSemicolonSeparated(t *testing.T) {
	schedule, err := NewParser().Parse(strings.NewReader(semicolonSchedule), "commissioni.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Amazon.it", "Amazon.fr"}, schedule.Columns)
	assert.Equal(t, []string{"Casa e cucina", "Elettronica"}, schedule.Categories())

	cell, ok := schedule.Cell("Casa e cucina", "Amazon.it")
	require.True(t, ok)
	assert.Equal(t, "15% fino a 50€, 10% oltre", cell)
}

func TestParseCommaSeparated(t *testing.T) {
	schedule, err := NewParser().Parse(strings.NewReader(commaSchedule), "commissioni.csv")
	require.NoError(t, err)

	assert.True(t, schedule.HasColumn("Amazon.de"))
	cell, ok := schedule.Cell("Libri", "Amazon.de")
	require.True(t, ok)
	assert.Equal(t, "15%", cell)
}

func TestParseSanitizesFreeText(t *testing.T) {
	input := "Category,Amazon.it\n<script>alert(1)</script>Giocattoli,<b>10%</b>\n"
	schedule, err := NewParser().Parse(strings.NewReader(input), "commissioni.csv")
	require.NoError(t, err)

	cell, ok := schedule.Cell("Giocattoli", "Amazon.it")
	require.True(t, ok, "categories: %v", schedule.Categories())
	assert.Equal(t, "10%", cell)
}

func TestParseMissingCategoryColumn(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("Categoria,Amazon.it\nLibri,10%\n"), "commissioni.csv")
	require.Error(t, err)
}

func TestParseNoMarketplaceColumns(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("Category\nLibri\n"), "commissioni.csv")
	require.Error(t, err)
}
