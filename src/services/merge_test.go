package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

func mergeListings() []models.ListingRow {
	return []models.ListingRow{
		{SKU: "SKU-1", ProductCode: "B0001", Marketplace: "Italia - Amazon.it", ListingPrice: models.Float64Ptr(19.9)},
		{SKU: "SKU-2", ProductCode: "B0002", Marketplace: "Francia - Amazon.fr", ListingPrice: models.Float64Ptr(24.9)},
		{SKU: "SKU-3", ProductCode: "B0003", Marketplace: "Italia - Amazon.it"},
	}
}

func TestMergeInputs(t *testing.T) {
	competitors := []models.CompetitorSnapshot{
		{ProductCode: "B0001", Locale: "it", BuyBoxPrice: models.Float64Ptr(18.5), Category: "Elettronica"},
		{ProductCode: "B0002", Locale: "fr", BuyBoxPrice: models.Float64Ptr(26.0), Category: "Informatique"},
		// Same key as the first snapshot: the later row wins.
		{ProductCode: "B0001", Locale: "it", BuyBoxPrice: models.Float64Ptr(18.0), Category: "Elettronica"},
	}
	costs := []models.CostEntry{
		{SKU: "SKU-1", PurchaseCost: models.Float64Ptr(8.0)},
	}

	merged := MergeInputs(mergeListings(), competitors, costs)
	require.Len(t, merged, 3)

	first := merged[0]
	require.NotNil(t, first.CompetitorPrice)
	assert.Equal(t, 18.0, *first.CompetitorPrice)
	assert.Equal(t, "Elettronica", first.CategoryLabel)
	require.NotNil(t, first.PurchaseCost)
	assert.Equal(t, 8.0, *first.PurchaseCost)
	require.NotNil(t, first.ShippingCost)
	assert.Equal(t, 5.14, *first.ShippingCost)

	second := merged[1]
	require.NotNil(t, second.CompetitorPrice)
	assert.Equal(t, 26.0, *second.CompetitorPrice)
	require.NotNil(t, second.ShippingCost)
	assert.Equal(t, 11.5, *second.ShippingCost)
	assert.Nil(t, second.PurchaseCost)

	// No competitor match for B0003.
	assert.Nil(t, merged[2].CompetitorPrice)
	assert.Empty(t, merged[2].CategoryLabel)
}

func TestMergeInputsLocaleMismatch(t *testing.T) {
	// Snapshot for the right code on the wrong marketplace must not join.
	competitors := []models.CompetitorSnapshot{
		{ProductCode: "B0001", Locale: "de", BuyBoxPrice: models.Float64Ptr(18.5)},
	}
	merged := MergeInputs(mergeListings(), competitors, nil)
	assert.Nil(t, merged[0].CompetitorPrice)
}

func TestMergeInputsDoesNotMutateInput(t *testing.T) {
	listings := mergeListings()
	MergeInputs(listings, []models.CompetitorSnapshot{
		{ProductCode: "B0001", Locale: "it", BuyBoxPrice: models.Float64Ptr(18.5)},
	}, nil)
	assert.Nil(t, listings[0].CompetitorPrice)
	assert.Nil(t, listings[0].ShippingCost)
}

func TestAlignCategories(t *testing.T) {
	schedule := models.NewFeeSchedule([]string{"Amazon.it"})
	schedule.SetCell("Elettronica", "Amazon.it", "7.21%")
	schedule.SetCell("Casa e cucina", "Amazon.it", "15%")

	rows := []models.ListingRow{
		{CategoryLabel: "Elettronica"},
		{CategoryLabel: "elettronica di consumo"},
		{CategoryLabel: "Casa"},
		{CategoryLabel: "Giocattoli"},
		{CategoryLabel: ""},
	}

	aligned := AlignCategories(rows, schedule)
	assert.Equal(t, "Elettronica", aligned[0].CategoryLabel)
	// Snapshot label containing a schedule category maps onto it.
	assert.Equal(t, "Elettronica", aligned[1].CategoryLabel)
	// Schedule category containing the snapshot label maps onto it too.
	assert.Equal(t, "Casa e cucina", aligned[2].CategoryLabel)
	// No match leaves the label alone.
	assert.Equal(t, "Giocattoli", aligned[3].CategoryLabel)
	assert.Empty(t, aligned[4].CategoryLabel)

	// Input slice is untouched.
	assert.Equal(t, "elettronica di consumo", rows[1].CategoryLabel)
}

func TestAlignCategoriesNilSchedule(t *testing.T) {
	rows := []models.ListingRow{{CategoryLabel: "Elettronica"}}
	assert.Equal(t, rows, AlignCategories(rows, nil))
}

func TestExtractASINsForLocale(t *testing.T) {
	rows := []models.ListingRow{
		{ProductCode: "B0002", Marketplace: "Italia - Amazon.it"},
		{ProductCode: "B0001", Marketplace: "Italia - Amazon.it"},
		{ProductCode: "B0002", Marketplace: "Italia - Amazon.it"},
		{ProductCode: "B0003", Marketplace: "Francia - Amazon.fr"},
		{ProductCode: "", Marketplace: "Italia - Amazon.it"},
	}

	assert.Equal(t, []string{"B0001", "B0002"}, ExtractASINsForLocale(rows, "it"))
	assert.Equal(t, []string{"B0003"}, ExtractASINsForLocale(rows, "fr"))
	assert.Empty(t, ExtractASINsForLocale(rows, "de"))
}
