package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDisplayPrice_RoundsToWholeUnits(t *testing.T) {
	tests := []struct {
		raw  float64
		want int64
	}{
		{500, 500},
		{1500, 1500},
		{499.49, 499},
		{499.5, 500},
		{0.5, 1},
		{0.49, 0},
		{0, 0},
		{1299.99, 1300},
	}

	for _, tt := range tests {
		got := DisplayPrice(tt.raw)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "DisplayPrice(%v) = %s, want %d", tt.raw, got, tt.want)
	}
}

func TestDisplayPrice_IgnoresExchangeRate(t *testing.T) {
	assert.Equal(t, "100", DisplayPrice(100).String())
	assert.NotEqual(t, decimal.NewFromInt(100*USDToINR).String(), DisplayPrice(100).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹500", Format(500))
	assert.Equal(t, "₹1300", Format(1299.99))
}

func TestLineTotal_RoundsBeforeMultiplying(t *testing.T) {
	// 3 x 10.4 would be 31.2 -> 31 if rounded after; rounding the unit first gives 30.
	assert.Equal(t, "30", LineTotal(10.4, 3).String())
	assert.Equal(t, "1000", LineTotal(500, 2).String())
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "2500.00", FormatTotal(decimal.NewFromInt(2500)))
	assert.Equal(t, "0.00", FormatTotal(decimal.Zero))
}
