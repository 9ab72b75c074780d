package models

// ListingRow is the unified, per-listing representation of the working table.
// The ingestion layer populates the input fields; the derived fields
// (FeePct, PriceDeltaAbs, PriceDeltaPct, NetMargin) are written exclusively
// by the recalculation pass in the pricing package.
//
// Nullable numeric columns use *float64: nil means the value is absent for
// that row (no competitor match, unparsable source cell, unset price).
type ListingRow struct {
	// --- Input fields, populated by parsers and the merge step ---
	SKU             string   `json:"sku"`
	ProductCode     string   `json:"product_code"` // marketplace catalog code (ASIN)
	Marketplace     string   `json:"marketplace"`  // e.g. "Italia - Amazon.it"
	ListingPrice    *float64 `json:"listing_price"`
	CompetitorPrice *float64 `json:"competitor_price"`
	PurchaseCost    *float64 `json:"purchase_cost"`
	CategoryLabel   string   `json:"category_label"`
	ShippingCost    *float64 `json:"shipping_cost"` // seeded at merge, operator-editable

	// --- Derived fields, owned by the recalculation pass ---
	FeePct        float64  `json:"fee_pct"`
	PriceDeltaAbs *float64 `json:"price_delta_abs"`
	PriceDeltaPct *float64 `json:"price_delta_pct"`
	NetMargin     *float64 `json:"net_margin"`

	// Extra is the passthrough of source feed columns that the core does not
	// interpret. The export layer needs them to rebuild the original file.
	Extra map[string]string `json:"extra,omitempty"`
}

// CompetitorSnapshot is one row of an external buy-box price export,
// keyed by (ProductCode, Locale).
type CompetitorSnapshot struct {
	ProductCode string   `json:"product_code"`
	Locale      string   `json:"locale"` // two-letter marketplace code, lowercase
	BuyBoxPrice *float64 `json:"buybox_price"`
	Category    string   `json:"category"`
}

// CostEntry is one row of the product cost list, keyed by SKU.
type CostEntry struct {
	SKU          string   `json:"sku"`
	PurchaseCost *float64 `json:"purchase_cost"`
}

// Float64Ptr returns a pointer to v. Convenience for building rows.
func Float64Ptr(v float64) *float64 { return &v }
