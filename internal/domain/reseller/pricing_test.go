// internal/domain/reseller/pricing_test.go
package reseller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMargin(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		margin  float64
		want    int64
		wantErr bool
	}{
		{name: "ten percent", price: 100000, margin: 10, want: 110000},
		{name: "zero margin", price: 100000, margin: 0, want: 100000},
		{name: "fractional margin rounds", price: 99999, margin: 12.5, want: 112499},
		{name: "full margin", price: 50000, margin: 100, want: 100000},
		{name: "negative price", price: -1, margin: 10, wantErr: true},
		{name: "negative margin", price: 100000, margin: -5, wantErr: true},
		{name: "margin above hundred", price: 100000, margin: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyMargin(tt.price, tt.margin)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarginAmount(t *testing.T) {
	amount, err := MarginAmount(100000, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), amount)
}

func TestBuildQuote(t *testing.T) {
	quote, err := BuildQuote("prod-1", 200000, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(200000), quote.UnitPrice)
	assert.Equal(t, int64(40000), quote.MarginPerUnit)
	assert.Equal(t, int64(240000), quote.ResellerPrice)
	assert.Equal(t, int64(2400000), quote.LineTotal)
}

func TestBuildQuoteRejectsZeroQuantity(t *testing.T) {
	_, err := BuildQuote("prod-1", 200000, 0, 20)
	assert.Error(t, err)
}
