// Package mapping holds the static lookup tables between two-letter
// marketplace locale codes, the human-readable marketplace labels used by
// the listings feed, and the column keys of the commission fee schedule.
package mapping

import "strings"

// localeToSite maps a lowercase locale code to the marketplace label used
// in the listings export.
var localeToSite = map[string]string{
	"it": "Italia - Amazon.it",
	"fr": "Francia - Amazon.fr",
	"de": "Germania - Amazon.de",
	"es": "Spagna - Amazon.es",
	"nl": "Paesi bassi - Amazon.nl",
	"be": "Belgio - Amazon.com.be",
	"ie": "Irlanda - Amazon.ie",
	"se": "Svezia - Amazon.se",
}

// siteToLocale is the inverse of localeToSite.
var siteToLocale = func() map[string]string {
	m := make(map[string]string, len(localeToSite))
	for locale, site := range localeToSite {
		m[site] = locale
	}
	return m
}()

// LocaleToSite maps a locale code (e.g. "it") to its marketplace label.
// Unknown codes are returned unchanged.
func LocaleToSite(locale string) string {
	if site, ok := localeToSite[strings.ToLower(locale)]; ok {
		return site
	}
	return locale
}

// SiteToLocale maps a marketplace label (e.g. "Italia - Amazon.it") to its
// locale code. Unknown labels are returned unchanged.
func SiteToLocale(site string) string {
	if locale, ok := siteToLocale[site]; ok {
		return locale
	}
	return site
}

// KnownLocales returns the set of locale codes the mapping understands.
func KnownLocales() map[string]bool {
	out := make(map[string]bool, len(localeToSite))
	for locale := range localeToSite {
		out[locale] = true
	}
	return out
}

// SiteToFeeColumn maps a marketplace label to the fee-schedule column key,
// which is the marketplace domain part of the label ("Italia - Amazon.it"
// -> "Amazon.it"). Returns "" for labels that carry no domain part.
func SiteToFeeColumn(site string) string {
	if _, ok := siteToLocale[site]; !ok {
		return ""
	}
	_, domain, found := strings.Cut(site, " - ")
	if !found {
		return ""
	}
	return domain
}
