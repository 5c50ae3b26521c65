package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-orders/pkg/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"0.005", "0.01"},
		{"-1.005", "-1.01"},
		{"7", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundMoney(d(tt.in)).String())
		})
	}
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name         string
		lines        []OrderLine
		taxRate      string
		shippingCost string
		discount     string
		wantSubtotal string
		wantTax      string
		wantTotal    string
		wantCode     string
	}{
		{
			name:         "simple order",
			lines:        []OrderLine{{UnitPrice: d("10"), Quantity: 2, LineTotal: d("20")}},
			taxRate:      "0.1",
			shippingCost: "5",
			discount:     "0",
			wantSubtotal: "20.00",
			wantTax:      "2.00",
			wantTotal:    "27.00",
		},
		{
			name:         "tax rounds half away from zero",
			lines:        []OrderLine{{UnitPrice: d("3.33"), Quantity: 3, LineTotal: d("9.99")}, {UnitPrice: d("0.01"), Quantity: 1, LineTotal: d("0.01")}},
			taxRate:      "0.0825",
			shippingCost: "0",
			discount:     "1.50",
			wantSubtotal: "10.00",
			wantTax:      "0.83",
			wantTotal:    "9.33",
		},
		{
			name:         "discount down to zero",
			lines:        []OrderLine{{UnitPrice: d("5"), Quantity: 1, LineTotal: d("5")}},
			taxRate:      "0",
			shippingCost: "0",
			discount:     "5",
			wantSubtotal: "5.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name:         "negative total",
			lines:        []OrderLine{{UnitPrice: d("5"), Quantity: 1, LineTotal: d("5")}},
			taxRate:      "0",
			shippingCost: "0",
			discount:     "5.01",
			wantCode:     errors.CodeValidation,
		},
		{
			name:         "tax rate above one",
			lines:        []OrderLine{{UnitPrice: d("5"), Quantity: 1, LineTotal: d("5")}},
			taxRate:      "1.5",
			shippingCost: "0",
			discount:     "0",
			wantCode:     errors.CodeValidation,
		},
		{
			name:         "negative shipping",
			lines:        []OrderLine{{UnitPrice: d("5"), Quantity: 1, LineTotal: d("5")}},
			taxRate:      "0",
			shippingCost: "-1",
			discount:     "0",
			wantCode:     errors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{
				Items:        tt.lines,
				TaxRate:      d(tt.taxRate),
				ShippingCost: d(tt.shippingCost),
				Discount:     d(tt.discount),
			}

			err := order.Recalculate()

			if tt.wantCode != "" {
				assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
				assert.True(t, order.Total.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubtotal, order.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, order.Tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, order.Total.StringFixed(2))
			assert.NoError(t, order.VerifyTotals())
		})
	}
}

func TestVerifyTotals_DetectsTampering(t *testing.T) {
	order := newPendingOrder(t)
	require.NoError(t, order.VerifyTotals())

	tampered := order.Clone()
	tampered.Total = tampered.Total.Add(d("0.01"))
	assert.Error(t, tampered.VerifyTotals())

	tampered = order.Clone()
	tampered.Items[0].LineTotal = d("19.99")
	assert.Error(t, tampered.VerifyTotals())
}
