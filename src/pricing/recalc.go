package pricing

import (
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

// Recompute runs the full derivation pass over every row and returns the
// updated table. It is the single re-entry point after every load, merge,
// edit, or bulk action, and the only code path that writes FeePct,
// PriceDeltaAbs, PriceDeltaPct, and NetMargin.
//
// The pass is total (defined for every row, whatever is missing) and
// idempotent: running it twice on its own output changes nothing, since
// every rounded column is recomputed from unrounded inputs each time.
func Recompute(rows []models.ListingRow, schedule *models.FeeSchedule, defaultFeePct float64) []models.ListingRow {
	out := make([]models.ListingRow, len(rows))
	copy(out, rows)
	for i := range out {
		row := &out[i]

		// A missing purchase cost means no cost data was loaded for the SKU;
		// it participates in the margin as 0.
		if row.PurchaseCost == nil {
			row.PurchaseCost = models.Float64Ptr(0)
		}

		row.FeePct = ResolveFeePct(row.CategoryLabel, row.Marketplace, schedule, defaultFeePct)
		row.PriceDeltaAbs, row.PriceDeltaPct = PriceDelta(row.ListingPrice, row.CompetitorPrice)
		row.NetMargin = NetMargin(row.ListingPrice, row.FeePct, row.ShippingCost, row.PurchaseCost)
	}
	return out
}
