// Package pricing turns cart lines into money totals. Amounts are decimal, never float.
package pricing

import "github.com/shopspring/decimal"

var (
	TaxRate               = decimal.RequireFromString("0.10")
	FreeShippingThreshold = decimal.RequireFromString("50.00")
	ShippingFee           = decimal.RequireFromString("9.99")
)

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  uint
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate prices lines in order. Shipping is waived only when the subtotal is
// strictly above FreeShippingThreshold. Tax is rounded half-up to cents.
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MinorUnits converts an amount to integer cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
