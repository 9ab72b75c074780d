package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleToSite(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "italian locale", locale: "it", want: "Italia - Amazon.it"},
		{name: "uppercase locale", locale: "FR", want: "Francia - Amazon.fr"},
		{name: "unknown locale passes through", locale: "uk", want: "uk"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LocaleToSite(tc.locale))
		})
	}
}

func TestSiteToLocale(t *testing.T) {
	assert.Equal(t, "de", SiteToLocale("Germania - Amazon.de"))
	assert.Equal(t, "Unknown Site", SiteToLocale("Unknown Site"))
}

func TestRoundTrip(t *testing.T) {
	for locale := range KnownLocales() {
		assert.Equal(t, locale, SiteToLocale(LocaleToSite(locale)))
	}
}

func TestSiteToFeeColumn(t *testing.T) {
	tests := []struct {
		name string
		site string
		want string
	}{
		{name: "italy", site: "Italia - Amazon.it", want: "Amazon.it"},
		{name: "belgium double tld", site: "Belgio - Amazon.com.be", want: "Amazon.com.be"},
		{name: "unknown label", site: "Regno Unito - Amazon.co.uk", want: ""},
		{name: "empty label", site: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SiteToFeeColumn(tc.site))
		})
	}
}
