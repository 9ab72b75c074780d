package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCostFor(t *testing.T) {
	tests := []struct {
		name        string
		marketplace string
		want        float64
	}{
		{name: "italian marketplace", marketplace: "Italia - Amazon.it", want: 5.14},
		{name: "english spelling", marketplace: "Italy - Amazon.it", want: 5.14},
		{name: "case insensitive", marketplace: "ITALIA - AMAZON.IT", want: 5.14},
		{name: "french marketplace", marketplace: "Francia - Amazon.fr", want: 11.50},
		{name: "german marketplace", marketplace: "Germania - Amazon.de", want: 11.50},
		{name: "empty label ships abroad", marketplace: "", want: 11.50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShippingCostFor(tc.marketplace))
		})
	}
}
