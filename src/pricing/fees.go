package pricing

import (
	"regexp"
	"strconv"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/mapping"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

// feePctRe matches a percentage figure inside free commission text:
// digits, optional decimal part, optional whitespace, then a percent sign.
var feePctRe = regexp.MustCompile(`(\d+(\.\d+)?)\s*%`)

// ParseFeeString extracts the commission percentage from a free-text
// schedule cell. Tiered strings ("15% fino a 50€; 10% oltre") carry several
// figures; only the first one is authoritative. Returns false when the text
// contains no percentage.
func ParseFeeString(s string) (float64, bool) {
	match := feePctRe.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// ResolveFeePct determines the commission percentage for one row.
//
// Every lookup miss is a silent fallback to defaultPct: an empty schedule,
// an empty category, an unmapped marketplace, an unknown category row, or
// commission text with no parsable percentage. This function never fails.
//
// The parsed value is taken verbatim; it is not clamped to [0,100].
func ResolveFeePct(categoryLabel, marketplace string, schedule *models.FeeSchedule, defaultPct float64) float64 {
	if schedule.IsEmpty() {
		return defaultPct
	}
	if categoryLabel == "" || marketplace == "" {
		return defaultPct
	}
	column := mapping.SiteToFeeColumn(marketplace)
	if column == "" || !schedule.HasColumn(column) {
		return defaultPct
	}
	text, ok := schedule.Cell(categoryLabel, column)
	if !ok {
		return defaultPct
	}
	pct, ok := ParseFeeString(text)
	if !ok {
		return defaultPct
	}
	return pct
}
