package pricing

import "math"

// round2 rounds to 2 decimal places, the precision of every money column.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceDelta compares the listing price against the competitor price.
// Both outputs are absent unless the listing price is present and non-zero
// and the competitor price is present.
//
//	abs = competitor - listing
//	pct = (competitor/listing - 1) * 100
func PriceDelta(listingPrice, competitorPrice *float64) (deltaAbs, deltaPct *float64) {
	if listingPrice == nil || *listingPrice == 0 || competitorPrice == nil {
		return nil, nil
	}
	abs := round2(*competitorPrice - *listingPrice)
	pct := round2((*competitorPrice / *listingPrice - 1) * 100)
	return &abs, &pct
}

// NetMargin computes the profitability of one row:
//
//	margin = listing - listing*feePct/100 - shipping - purchase
//
// Absent when the listing price is absent. A missing purchase cost counts
// as 0. The shipping cost is always seeded at merge time, so a nil here is
// an ingestion defect; the absence propagates instead of being zeroed.
func NetMargin(listingPrice *float64, feePct float64, shippingCost, purchaseCost *float64) *float64 {
	if listingPrice == nil {
		return nil
	}
	if shippingCost == nil {
		return nil
	}
	purchase := 0.0
	if purchaseCost != nil {
		purchase = *purchaseCost
	}
	feeAmount := *listingPrice * feePct / 100
	margin := round2(*listingPrice - feeAmount - *shippingCost - purchase)
	return &margin
}
