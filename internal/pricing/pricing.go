// Package pricing turns catalog prices into the values shown to shoppers.
//
// Catalog prices are already denominated in the display currency, so the only
// transformation is rounding to a whole unit.
package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol = "₹"
	CurrencyCode   = "INR"

	// USDToINR is an approximate exchange rate. It is not applied anywhere:
	// catalog prices are treated as INR already.
	USDToINR = 83
)

// DisplayPrice rounds raw to the nearest whole unit, halves away from zero.
func DisplayPrice(raw float64) decimal.Decimal {
	return decimal.NewFromFloat(raw).Round(0)
}

// Format renders a unit price with the currency symbol, e.g. "₹500".
func Format(raw float64) string {
	return CurrencySymbol + DisplayPrice(raw).String()
}

// LineTotal is the rounded unit price multiplied by quantity.
func LineTotal(raw float64, quantity int) decimal.Decimal {
	return DisplayPrice(raw).Mul(decimal.NewFromInt(int64(quantity)))
}

// FormatTotal renders an amount with two decimal places, e.g. "2500.00".
func FormatTotal(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
