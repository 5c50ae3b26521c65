package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-orders/internal/orders/adapters"
	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	"go-orders/pkg/errors"
	"go-orders/pkg/logger"
)

type brokenLedger struct{}

func (brokenLedger) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, errors.NewInternal("catalog unavailable", fmt.Errorf("connection refused"))
}

func (brokenLedger) AdjustStock(context.Context, string, int) (int, error) {
	return 0, errors.NewInternal("catalog unavailable", nil)
}

func TestValidateCartForCheckout(t *testing.T) {
	// Arrange
	retired := product("RETIRED", "3", 10)
	retired.IsActive = false
	ledger := adapters.NewMemoryInventoryLedger(
		product("P1", "10", 10),
		product("P2", "2.50", 1),
		retired,
	)
	carts := adapters.NewMemoryCartStore()
	ctx := context.Background()
	require.NoError(t, carts.SetItem(ctx, "cust-1", "P1", 2))
	require.NoError(t, carts.SetItem(ctx, "cust-1", "P2", 3))
	require.NoError(t, carts.SetItem(ctx, "cust-1", "RETIRED", 1))
	require.NoError(t, carts.SetItem(ctx, "cust-1", "GONE", 1))
	validator := NewCartValidator(carts, ledger, logger.NewNop())

	// Act
	report, err := validator.ValidateCartForCheckout(ctx, "cust-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cust-1", report.CustomerID)
	assert.False(t, report.IsValid)
	require.Len(t, report.Items, 4)

	assert.True(t, report.Items[0].Valid)
	assert.Equal(t, 10, report.Items[0].Available)

	assert.False(t, report.Items[1].Valid)
	assert.Contains(t, report.Items[1].Reason, ReasonInsufficientStock)
	assert.Equal(t, 1, report.Items[1].Available)

	assert.False(t, report.Items[2].Valid)
	assert.Equal(t, ReasonProductInactive, report.Items[2].Reason)

	assert.False(t, report.Items[3].Valid)
	assert.Equal(t, ReasonProductNotFound, report.Items[3].Reason)

	assert.Equal(t, "20.00", report.Subtotal.StringFixed(2))

	// validation never reserves
	assert.Equal(t, 10, ledger.Stock("P1"))
	assert.Equal(t, 1, ledger.Stock("P2"))
}

func TestValidateCartForCheckout_AllValid(t *testing.T) {
	ledger := adapters.NewMemoryInventoryLedger(product("P1", "10", 10), product("P2", "2.50", 4))
	carts := adapters.NewMemoryCartStore()
	ctx := context.Background()
	require.NoError(t, carts.SetItem(ctx, "cust-1", "P1", 1))
	require.NoError(t, carts.SetItem(ctx, "cust-1", "P2", 4))

	report, err := NewCartValidator(carts, ledger, nil).ValidateCartForCheckout(ctx, "cust-1")

	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Equal(t, "20.00", report.Subtotal.StringFixed(2))
}

func TestValidateCartForCheckout_EmptyCart(t *testing.T) {
	validator := NewCartValidator(adapters.NewMemoryCartStore(), adapters.NewMemoryInventoryLedger(), nil)

	report, err := validator.ValidateCartForCheckout(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Empty(t, report.Items)
}

func TestValidateItems_InvalidQuantity(t *testing.T) {
	validator := NewCartValidator(nil, adapters.NewMemoryInventoryLedger(product("P1", "10", 10)), nil)

	report, err := validator.ValidateItems(context.Background(), []ports.CartLine{{ProductID: "P1", Quantity: 0}})

	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Equal(t, ReasonInvalidQuantity, report.Items[0].Reason)
}

func TestValidateItems_PropagatesInfrastructureErrors(t *testing.T) {
	validator := NewCartValidator(nil, brokenLedger{}, nil)

	_, err := validator.ValidateItems(context.Background(), []ports.CartLine{{ProductID: "P1", Quantity: 1}})

	requireCode(t, err, errors.CodeInternal)
}

func TestValidateCartForCheckout_RequiresCustomer(t *testing.T) {
	validator := NewCartValidator(adapters.NewMemoryCartStore(), adapters.NewMemoryInventoryLedger(), nil)

	_, err := validator.ValidateCartForCheckout(context.Background(), "")

	requireCode(t, err, errors.CodeValidation)
}
