package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

func recalcRows() []models.ListingRow {
	return []models.ListingRow{
		{
			SKU: "SKU-1", ProductCode: "B000000001", Marketplace: "Italia - Amazon.it",
			ListingPrice: fp(100), CompetitorPrice: fp(90),
			CategoryLabel: "Elettronica", ShippingCost: fp(5.14), PurchaseCost: fp(20),
		},
		{
			SKU: "SKU-2", ProductCode: "B000000002", Marketplace: "Francia - Amazon.fr",
			ListingPrice: fp(150), CompetitorPrice: fp(160),
			ShippingCost: fp(11.50),
		},
		{
			SKU: "SKU-3", ProductCode: "B000000003", Marketplace: "Italia - Amazon.it",
			ListingPrice: fp(60), ShippingCost: fp(5.14),
		},
		{
			SKU: "SKU-4", ProductCode: "B000000004", Marketplace: "Germania - Amazon.de",
			CompetitorPrice: fp(80), ShippingCost: fp(11.50),
		},
	}
}

func TestRecompute(t *testing.T) {
	out := Recompute(recalcRows(), testSchedule(), 15)
	require.Len(t, out, 4)

	// Row 0: schedule hit (Elettronica / Amazon.it -> 7.21%).
	assert.Equal(t, 7.21, out[0].FeePct)
	require.NotNil(t, out[0].PriceDeltaAbs)
	assert.Equal(t, -10.0, *out[0].PriceDeltaAbs)
	assert.Equal(t, -10.0, *out[0].PriceDeltaPct)
	require.NotNil(t, out[0].NetMargin)
	assert.Equal(t, 67.65, *out[0].NetMargin) // 100 - 7.21 - 5.14 - 20

	// Row 1: no category, default fee applies.
	assert.Equal(t, 15.0, out[1].FeePct)
	assert.Equal(t, 10.0, *out[1].PriceDeltaAbs)
	assert.Equal(t, 6.67, *out[1].PriceDeltaPct)
	assert.Equal(t, 116.0, *out[1].NetMargin)

	// Row 2: no competitor price, deltas absent, margin still computed.
	assert.Nil(t, out[2].PriceDeltaAbs)
	assert.Nil(t, out[2].PriceDeltaPct)
	require.NotNil(t, out[2].NetMargin)
	assert.Equal(t, 45.86, *out[2].NetMargin)

	// Row 3: no listing price, deltas and margin absent.
	assert.Nil(t, out[3].PriceDeltaAbs)
	assert.Nil(t, out[3].PriceDeltaPct)
	assert.Nil(t, out[3].NetMargin)
}

func TestRecomputeMarginTotality(t *testing.T) {
	// Every row with a listing price gets a margin, whatever else is missing.
	out := Recompute(recalcRows(), nil, 15)
	for i, row := range out {
		if row.ListingPrice != nil {
			assert.NotNil(t, row.NetMargin, "row %d", i)
		}
	}
}

func TestRecomputeDeltaAbsenceLaw(t *testing.T) {
	out := Recompute(recalcRows(), testSchedule(), 15)
	for i, row := range out {
		absent := row.ListingPrice == nil || *row.ListingPrice == 0 || row.CompetitorPrice == nil
		if absent {
			assert.Nil(t, row.PriceDeltaAbs, "row %d", i)
			assert.Nil(t, row.PriceDeltaPct, "row %d", i)
		} else {
			assert.NotNil(t, row.PriceDeltaAbs, "row %d", i)
			assert.NotNil(t, row.PriceDeltaPct, "row %d", i)
		}
	}
}

func TestRecomputeNormalizesMissingPurchaseCost(t *testing.T) {
	out := Recompute(recalcRows(), nil, 15)
	for i, row := range out {
		require.NotNil(t, row.PurchaseCost, "row %d", i)
	}
	assert.Equal(t, 0.0, *out[1].PurchaseCost)
	assert.Equal(t, 20.0, *out[0].PurchaseCost)
}

func TestRecomputeIdempotent(t *testing.T) {
	schedule := testSchedule()
	once := Recompute(recalcRows(), schedule, 15)
	twice := Recompute(once, schedule, 15)
	assert.Equal(t, once, twice)
}

func TestRecomputeAfterBulkAction(t *testing.T) {
	schedule := testSchedule()
	table := Recompute(recalcRows(), schedule, 15)

	mutated := AlignToCompetitor(table, []int{0}, 10, true)
	// The strategy itself does not refresh derived columns.
	assert.Equal(t, -10.0, *mutated[0].PriceDeltaAbs)

	refreshed := Recompute(mutated, schedule, 15)
	assert.Equal(t, 81.0, *refreshed[0].ListingPrice)
	assert.Equal(t, 9.0, *refreshed[0].PriceDeltaAbs)   // 90 - 81
	assert.Equal(t, 11.11, *refreshed[0].PriceDeltaPct) // (90/81 - 1) * 100
}

func TestRecomputeDoesNotMutateInput(t *testing.T) {
	rows := recalcRows()
	_ = Recompute(rows, testSchedule(), 15)
	assert.Zero(t, rows[0].FeePct)
	assert.Nil(t, rows[0].PriceDeltaAbs)
}
