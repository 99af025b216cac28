// Package pricing is the single home of the markup formula. Every screen and
// handler that shows or stores a customer-facing price goes through it, so
// the preview an admin sees and the price the storefront charges can never
// drift apart.
package pricing

import "github.com/shopspring/decimal"

// FinalPrice computes the customer-facing price from a base (cost) price and
// a markup percentage: base * (1 + markup/100), rounded half-up to 2 decimal
// places. A zero base always yields zero. Negative markup is not rejected
// here; callers that care should check IsBelowBase and warn the operator.
func FinalPrice(basePrice, markupPercent float64) float64 {
	base := decimal.NewFromFloat(basePrice)
	markup := decimal.NewFromFloat(markupPercent)

	multiplier := decimal.NewFromInt(1).Add(markup.Div(decimal.NewFromInt(100)))
	final, _ := base.Mul(multiplier).Round(2).Float64()
	return final
}

// IsBelowBase reports whether the given markup would price a product below
// its base price. Mathematically legal, but almost always an operator mistake.
func IsBelowBase(markupPercent float64) bool {
	return markupPercent < 0
}

// LineTotal multiplies a unit price by a quantity, exact to 2 decimal places.
func LineTotal(unitPrice float64, quantity int) float64 {
	total, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		Float64()
	return total
}

// Sum adds a list of amounts without accumulating float error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	result, _ := total.Round(2).Float64()
	return result
}
