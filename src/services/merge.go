package services

import (
	"sort"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/mapping"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/pricing"
)

// MergeInputs builds the working table from the three uploaded inputs.
// Listings drive the join: every listing row survives, enriched with the
// competitor snapshot matching its (catalog code, locale) and the purchase
// cost matching its SKU. Rows without a match keep those fields absent.
// Shipping cost is seeded from the marketplace label and stays editable.
func MergeInputs(listings []models.ListingRow, competitors []models.CompetitorSnapshot, costs []models.CostEntry) []models.ListingRow {
	competitorIdx := make(map[string]models.CompetitorSnapshot, len(competitors))
	for _, snapshot := range competitors {
		// Later rows of the competitor export are fresher; they win.
		competitorIdx[snapshot.ProductCode+"\x00"+snapshot.Locale] = snapshot
	}

	costIdx := make(map[string]*float64, len(costs))
	for _, entry := range costs {
		if _, seen := costIdx[entry.SKU]; !seen {
			costIdx[entry.SKU] = entry.PurchaseCost
		}
	}

	merged := make([]models.ListingRow, len(listings))
	for i, row := range listings {
		locale := mapping.SiteToLocale(row.Marketplace)
		if snapshot, ok := competitorIdx[row.ProductCode+"\x00"+locale]; ok {
			row.CompetitorPrice = snapshot.BuyBoxPrice
			if snapshot.Category != "" {
				row.CategoryLabel = snapshot.Category
			}
		}
		if cost, ok := costIdx[row.SKU]; ok {
			row.PurchaseCost = cost
		}
		row.ShippingCost = models.Float64Ptr(pricing.ShippingCostFor(row.Marketplace))
		merged[i] = row
	}
	return merged
}

// AlignCategories rewrites competitor-sourced category labels onto the fee
// schedule's own labels when a case-insensitive substring match exists, so
// the fee resolver hits the schedule row instead of falling back to the
// default commission. Labels that already match a schedule category, or
// match none, are left as they are. Runs once at merge time, never inside
// the derivation pass.
func AlignCategories(rows []models.ListingRow, schedule *models.FeeSchedule) []models.ListingRow {
	if schedule.IsEmpty() {
		return rows
	}
	categories := schedule.Categories()

	out := make([]models.ListingRow, len(rows))
	copy(out, rows)
	for i := range out {
		label := out[i].CategoryLabel
		if label == "" || hasCategory(categories, label) {
			continue
		}
		if match, ok := closestCategory(label, categories); ok {
			out[i].CategoryLabel = match
		}
	}
	return out
}

func hasCategory(categories []string, label string) bool {
	for _, cat := range categories {
		if cat == label {
			return true
		}
	}
	return false
}

// closestCategory picks the first schedule category (in sorted order) that
// contains the label or is contained by it, ignoring case.
func closestCategory(label string, categories []string) (string, bool) {
	lower := strings.ToLower(label)
	for _, cat := range categories {
		lc := strings.ToLower(cat)
		if strings.Contains(lower, lc) || strings.Contains(lc, lower) {
			return cat, true
		}
	}
	return "", false
}

// ExtractASINsForLocale returns the distinct catalog codes of the listings
// published on the marketplace identified by the locale, sorted. Used to
// build the product list for an external price lookup.
func ExtractASINsForLocale(rows []models.ListingRow, locale string) []string {
	site := mapping.LocaleToSite(locale)

	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, row := range rows {
		if row.Marketplace != site || row.ProductCode == "" {
			continue
		}
		if _, dup := seen[row.ProductCode]; dup {
			continue
		}
		seen[row.ProductCode] = struct{}{}
		codes = append(codes, row.ProductCode)
	}
	sort.Strings(codes)
	return codes
}
