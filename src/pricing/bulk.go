package pricing

import (
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

// minListingPrice is the floor applied to every bulk price mutation.
// No strategy ever produces a zero or negative price.
const minListingPrice = 0.01

// Both bulk strategies return a new row slice and write only ListingPrice;
// the caller is expected to run Recompute on the result to refresh the
// derived columns. Positions outside [0, len(rows)) are skipped: selections
// arrive from untrusted callers and are filtered rather than trusted.

// ScalePrice lowers the listing price of the selected rows by a fixed
// amount (asPercentage=false) or by a percentage of the current price
// (asPercentage=true). An absent listing price counts as 0, so discounting
// an unset price yields a negative value that the floor lifts to 0.01.
func ScalePrice(rows []models.ListingRow, positions []int, amount float64, asPercentage bool) []models.ListingRow {
	if len(positions) == 0 {
		return rows
	}
	out := make([]models.ListingRow, len(rows))
	copy(out, rows)
	for _, pos := range positions {
		if pos < 0 || pos >= len(out) {
			continue
		}
		price := 0.0
		if out[pos].ListingPrice != nil {
			price = *out[pos].ListingPrice
		}
		var newPrice float64
		if asPercentage {
			newPrice = price * (1 - amount/100)
		} else {
			newPrice = price - amount
		}
		newPrice = round2(max(minListingPrice, newPrice))
		out[pos].ListingPrice = &newPrice
	}
	return out
}

// AlignToCompetitor sets the listing price of the selected rows to the
// competitor price minus a delta, absolute or percentage. Rows without a
// competitor price are left completely untouched, including their current
// listing price.
func AlignToCompetitor(rows []models.ListingRow, positions []int, delta float64, asPercentage bool) []models.ListingRow {
	if len(positions) == 0 {
		return rows
	}
	out := make([]models.ListingRow, len(rows))
	copy(out, rows)
	for _, pos := range positions {
		if pos < 0 || pos >= len(out) {
			continue
		}
		if out[pos].CompetitorPrice == nil {
			continue
		}
		competitor := *out[pos].CompetitorPrice
		var newPrice float64
		if asPercentage {
			newPrice = competitor * (1 - delta/100)
		} else {
			newPrice = competitor - delta
		}
		newPrice = round2(max(minListingPrice, newPrice))
		out[pos].ListingPrice = &newPrice
	}
	return out
}
