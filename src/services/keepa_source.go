package services

import (
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

// keepaPriceSource is the extension point for fetching buy-box prices
// straight from the Keepa API instead of a CSV export. The fetch itself is
// not wired yet; operators use the upload path.
type keepaPriceSource struct {
	apiKey string
}

// NewKeepaPriceSource returns a CompetitorPriceSource backed by the Keepa
// API.
func NewKeepaPriceSource(apiKey string) CompetitorPriceSource {
	return &keepaPriceSource{apiKey: apiKey}
}

// FetchPrices is a placeholder. The request batching and token bucket
// accounting that Keepa's API requires are TODO once an API key tier is
// chosen.
func (s *keepaPriceSource) FetchPrices(locale string, productCodes []string) ([]models.CompetitorSnapshot, error) {
	return nil, ErrNotImplemented
}
