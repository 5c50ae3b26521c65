package domain

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the supported set
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

var currencies = map[Currency]bool{
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyGBP: true,
	CurrencyJPY: true,
	CurrencyCAD: true,
	CurrencyAUD: true,
}

// Valid reports whether c is supported
func (c Currency) Valid() bool {
	return currencies[c]
}

var maxTaxRate = decimal.NewFromInt(1)

// RoundMoney rounds an amount to cents, half away from zero
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Recalculate derives subtotal, tax and total from the lines and the stored
// rate, shipping cost and discount. A negative result is rejected and leaves
// the order untouched.
func (o *Order) Recalculate() error {
	if o.TaxRate.IsNegative() || o.TaxRate.GreaterThan(maxTaxRate) {
		return ErrInvalidTaxRate
	}
	if o.ShippingCost.IsNegative() {
		return NewInvalidAmount("shipping_cost")
	}
	if o.Discount.IsNegative() {
		return NewInvalidAmount("discount")
	}

	subtotal := decimal.Zero
	for _, line := range o.Items {
		subtotal = subtotal.Add(line.LineTotal)
	}
	subtotal = RoundMoney(subtotal)
	tax := RoundMoney(subtotal.Mul(o.TaxRate))
	shipping := RoundMoney(o.ShippingCost)
	discount := RoundMoney(o.Discount)
	total := subtotal.Add(tax).Add(shipping).Sub(discount)

	if total.IsNegative() {
		return NewNegativeTotal(total.StringFixed(2))
	}

	o.Subtotal = subtotal
	o.Tax = tax
	o.ShippingCost = shipping
	o.Discount = discount
	o.Total = total
	return nil
}

// VerifyTotals checks the monetary invariants without modifying the order
func (o *Order) VerifyTotals() error {
	subtotal := decimal.Zero
	for _, line := range o.Items {
		expected := RoundMoney(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		if !line.LineTotal.Equal(expected) {
			return NewTotalsMismatch("line_total", line.ProductID)
		}
		subtotal = subtotal.Add(line.LineTotal)
	}
	if !o.Subtotal.Equal(subtotal) {
		return NewTotalsMismatch("subtotal", o.ID)
	}

	for _, amount := range []decimal.Decimal{o.Subtotal, o.Tax, o.ShippingCost, o.Discount, o.Total} {
		if amount.IsNegative() {
			return NewTotalsMismatch("negative_amount", o.ID)
		}
	}

	if !o.Total.Equal(o.Subtotal.Add(o.Tax).Add(o.ShippingCost).Sub(o.Discount)) {
		return NewTotalsMismatch("total", o.ID)
	}
	return nil
}
