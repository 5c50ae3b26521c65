package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-orders/internal/orders/domain"
)

func TestMemoryInventoryLedger(t *testing.T) {
	runLedgerContract(t, NewMemoryInventoryLedger())
}

func TestMemoryOrderRepository(t *testing.T) {
	runRepositoryContract(t, NewMemoryOrderRepository())
}

func TestMemoryCartStore(t *testing.T) {
	runCartContract(t, NewMemoryCartStore())
}

func TestMemoryInventoryLedger_RemoveProduct(t *testing.T) {
	ledger := NewMemoryInventoryLedger(domain.Product{ID: "P1", Stock: 4})
	assert.Equal(t, 4, ledger.Stock("P1"))

	ledger.RemoveProduct("P1")

	assert.Equal(t, -1, ledger.Stock("P1"))
	_, err := ledger.GetProduct(context.Background(), "P1")
	require.Error(t, err)
}

func TestMemoryOrderRepository_StoresCopies(t *testing.T) {
	repo := NewMemoryOrderRepository()
	order := newTestOrder(t, "ord-1", "ORD-1", "cust-1", testNow)
	require.NoError(t, repo.Create(context.Background(), order))

	order.Items[0].Quantity = 50
	order.StatusHistory[0].Note = "rewritten"

	got, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "order placed", got.StatusHistory[0].Note)
}

func TestMemoryCustomerStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCustomerStore("cust-1")

	exists, err := store.CustomerExists(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CustomerExists(ctx, "cust-2")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.UpsertCustomer(ctx, &domain.Customer{ID: "cust-2", Name: "Ada"}))
	exists, err = store.CustomerExists(ctx, "cust-2")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryUnitOfWork_PropagatesError(t *testing.T) {
	called := false
	err := MemoryUnitOfWork{}.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return assert.AnError
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, assert.AnError)
}
