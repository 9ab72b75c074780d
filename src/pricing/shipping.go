package pricing

import "strings"

// Default shipping costs per destination class, in EUR.
const (
	shippingCostDomestic      = 5.14
	shippingCostInternational = 11.50
)

// ShippingCostFor returns the default shipping cost for a marketplace label.
// Labels mentioning Italy ship domestically; everything else ships abroad.
// The match is a case-insensitive substring check, not an equality test.
//
// The rule only supplies the seed value at merge time; the operator can edit
// the shipping cost afterwards and no recalculation overwrites it.
func ShippingCostFor(marketplace string) float64 {
	lower := strings.ToLower(marketplace)
	if strings.Contains(lower, "italia") || strings.Contains(lower, "italy") {
		return shippingCostDomestic
	}
	return shippingCostInternational
}
