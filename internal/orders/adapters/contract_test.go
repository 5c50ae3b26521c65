package adapters

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	apperrors "go-orders/pkg/errors"
)

// catalogLedger is an InventoryLedger that can be seeded
type catalogLedger interface {
	ports.InventoryLedger
	SaveProduct(ctx context.Context, product *domain.Product) error
}

// editableCart is a CartStore whose lines can be set
type editableCart interface {
	ports.CartStore
	SetItem(ctx context.Context, customerID, productID string, quantity int) error
}

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestOrder(t *testing.T, id, number, customerID string, createdAt time.Time) *domain.Order {
	t.Helper()

	mug := domain.Product{ID: "P1", Name: "Mug", Image: "mug.png", Price: decimal.RequireFromString("10.00")}
	lamp := domain.Product{ID: "P2", Name: "Lamp", Price: decimal.RequireFromString("24.99")}

	order, err := domain.NewOrder(domain.NewOrderParams{
		ID:            id,
		OrderNumber:   number,
		CustomerID:    customerID,
		Lines:         []domain.OrderLine{mug.Line(2), lamp.Line(1)},
		PaymentMethod: domain.PaymentMethodCreditCard,
		Shipping: domain.Shipping{
			Address: domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"},
			Method:  "standard",
		},
		TaxRate:      decimal.RequireFromString("0.08"),
		ShippingCost: decimal.RequireFromString("5.00"),
		Currency:     domain.CurrencyUSD,
		CustomerNote: "leave at the door",
		ActorID:      customerID,
		Now:          createdAt,
	})
	require.NoError(t, err)
	return order
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func runLedgerContract(t *testing.T, ledger catalogLedger) {
	ctx := context.Background()

	seed := func(t *testing.T, id string, stock int, active bool) {
		t.Helper()
		require.NoError(t, ledger.SaveProduct(ctx, &domain.Product{
			ID:       id,
			Name:     "Product " + id,
			Image:    id + ".png",
			Price:    decimal.RequireFromString("12.34"),
			Stock:    stock,
			IsActive: active,
		}))
	}

	t.Run("GetProduct", func(t *testing.T) {
		seed(t, "get-1", 7, false)

		product, err := ledger.GetProduct(ctx, "get-1")

		require.NoError(t, err)
		assert.Equal(t, "Product get-1", product.Name)
		assert.Equal(t, "get-1.png", product.Image)
		assert.Equal(t, "12.34", product.Price.StringFixed(2))
		assert.Equal(t, 7, product.Stock)
		assert.False(t, product.IsActive)
	})

	t.Run("GetProduct_NotFound", func(t *testing.T) {
		_, err := ledger.GetProduct(ctx, "missing")
		requireAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("SaveProduct_Replaces", func(t *testing.T) {
		seed(t, "replace-1", 3, true)
		seed(t, "replace-1", 9, true)

		product, err := ledger.GetProduct(ctx, "replace-1")
		require.NoError(t, err)
		assert.Equal(t, 9, product.Stock)
	})

	t.Run("AdjustStock", func(t *testing.T) {
		seed(t, "adjust-1", 10, true)

		stock, err := ledger.AdjustStock(ctx, "adjust-1", -3)
		require.NoError(t, err)
		assert.Equal(t, 7, stock)

		stock, err = ledger.AdjustStock(ctx, "adjust-1", 3)
		require.NoError(t, err)
		assert.Equal(t, 10, stock)

		stock, err = ledger.AdjustStock(ctx, "adjust-1", -10)
		require.NoError(t, err)
		assert.Equal(t, 0, stock)
	})

	t.Run("AdjustStock_Insufficient", func(t *testing.T) {
		seed(t, "short-1", 2, true)

		stock, err := ledger.AdjustStock(ctx, "short-1", -3)

		requireAppCode(t, err, apperrors.CodeInsufficientStock)
		assert.Equal(t, 2, stock)
		product, err := ledger.GetProduct(ctx, "short-1")
		require.NoError(t, err)
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("AdjustStock_NotFound", func(t *testing.T) {
		_, err := ledger.AdjustStock(ctx, "missing", -1)
		requireAppCode(t, err, apperrors.CodeNotFound)

		_, err = ledger.AdjustStock(ctx, "missing", 1)
		requireAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("AdjustStock_ConcurrentNeverOversells", func(t *testing.T) {
		const stock, buyers = 10, 25
		seed(t, "race-1", stock, true)

		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
			start     = make(chan struct{})
		)
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := ledger.AdjustStock(ctx, "race-1", -1); err == nil {
					succeeded.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(stock), succeeded.Load())
		product, err := ledger.GetProduct(ctx, "race-1")
		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
	})
}

func runRepositoryContract(t *testing.T, repo ports.OrderRepository) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		order := newTestOrder(t, "ord-get", "ORD-GET-1", "cust-get", testNow)
		require.NoError(t, repo.Create(ctx, order))

		got, err := repo.GetByID(ctx, "ord-get")
		require.NoError(t, err)

		assert.Equal(t, "ORD-GET-1", got.OrderNumber)
		assert.Equal(t, "cust-get", got.CustomerID)
		assert.Equal(t, domain.OrderStatusPending, got.Status)
		assert.Equal(t, domain.PaymentStatusPending, got.Payment.Status)
		assert.Equal(t, domain.PaymentMethodCreditCard, got.Payment.Method)
		assert.Equal(t, domain.CurrencyUSD, got.Currency)
		assert.Equal(t, 1, got.Version)
		assert.True(t, got.CreatedAt.Equal(testNow))
		assert.Equal(t, "leave at the door", got.Notes.Customer)
		assert.Equal(t, order.Shipping.Address, got.Shipping.Address)

		require.Len(t, got.Items, 2)
		assert.Equal(t, "P1", got.Items[0].ProductID)
		assert.Equal(t, "mug.png", got.Items[0].Image)
		assert.Equal(t, "20.00", got.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, "P2", got.Items[1].ProductID)

		assert.Equal(t, order.Subtotal.StringFixed(2), got.Subtotal.StringFixed(2))
		assert.Equal(t, order.Tax.StringFixed(2), got.Tax.StringFixed(2))
		assert.Equal(t, order.Total.StringFixed(2), got.Total.StringFixed(2))
		assert.NoError(t, got.VerifyTotals())

		require.Len(t, got.StatusHistory, 1)
		assert.Equal(t, domain.OrderStatusPending, got.StatusHistory[0].Status)

		byNumber, err := repo.GetByNumber(ctx, "ORD-GET-1")
		require.NoError(t, err)
		assert.Equal(t, "ord-get", byNumber.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ord-missing")
		requireAppCode(t, err, apperrors.CodeNotFound)

		_, err = repo.GetByNumber(ctx, "ORD-MISSING")
		requireAppCode(t, err, apperrors.CodeNotFound)

		err = repo.Update(ctx, newTestOrder(t, "ord-missing", "ORD-MISSING", "cust", testNow))
		requireAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("Create_DuplicateNumber", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestOrder(t, "ord-dup-1", "ORD-DUP", "cust-dup", testNow)))

		err := repo.Create(ctx, newTestOrder(t, "ord-dup-2", "ORD-DUP", "cust-dup", testNow))

		requireAppCode(t, err, apperrors.CodeConflict)
		_, err = repo.GetByID(ctx, "ord-dup-2")
		requireAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("Update_AppendsHistoryAndBumpsVersion", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestOrder(t, "ord-upd", "ORD-UPD", "cust-upd", testNow)))

		order, err := repo.GetByID(ctx, "ord-upd")
		require.NoError(t, err)
		require.NoError(t, order.MarkPaid("txn-1", testNow.Add(time.Minute)))
		require.NoError(t, repo.Update(ctx, order))
		assert.Equal(t, 2, order.Version)

		_, err = order.AddTracking("1Z999", testNow.Add(time.Hour), "admin-1", testNow.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, order.AddAdminNote("fragile", testNow.Add(time.Hour)))
		require.NoError(t, repo.Update(ctx, order))

		got, err := repo.GetByID(ctx, "ord-upd")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Version)
		assert.Equal(t, domain.OrderStatusShipped, got.Status)
		assert.Equal(t, domain.PaymentStatusCompleted, got.Payment.Status)
		assert.Equal(t, "txn-1", got.Payment.TransactionID)
		require.NotNil(t, got.Payment.PaidAt)
		assert.True(t, got.Payment.PaidAt.Equal(testNow.Add(time.Minute)))
		assert.Equal(t, "1Z999", got.Shipping.TrackingNumber)
		assert.Equal(t, "fragile", got.Notes.Admin)

		statuses := make([]domain.OrderStatus, len(got.StatusHistory))
		for i, entry := range got.StatusHistory {
			statuses[i] = entry.Status
		}
		assert.Equal(t, []domain.OrderStatus{
			domain.OrderStatusPending,
			domain.OrderStatusConfirmed,
			domain.OrderStatusShipped,
		}, statuses)
		assert.Equal(t, "admin-1", got.StatusHistory[2].ActorID)
	})

	t.Run("Update_StaleVersionConflicts", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestOrder(t, "ord-cas", "ORD-CAS", "cust-cas", testNow)))

		first, err := repo.GetByID(ctx, "ord-cas")
		require.NoError(t, err)
		second, err := repo.GetByID(ctx, "ord-cas")
		require.NoError(t, err)

		_, err = first.Cancel("cust-cas", "", testNow.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.MarkPaid("txn-late", testNow.Add(time.Minute)))
		err = repo.Update(ctx, second)
		requireAppCode(t, err, apperrors.CodeConflict)

		got, err := repo.GetByID(ctx, "ord-cas")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, got.Status)
		assert.Equal(t, domain.PaymentStatusPending, got.Payment.Status)
		assert.Len(t, got.StatusHistory, 2)
	})

	t.Run("ListByCustomer", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			order := newTestOrder(t, fmt.Sprintf("ord-list-%d", i), fmt.Sprintf("ORD-LIST-%d", i), "cust-list", testNow.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, order))
		}
		require.NoError(t, repo.Create(ctx, newTestOrder(t, "ord-other", "ORD-OTHER", "cust-other", testNow)))

		page, err := repo.ListByCustomer(ctx, "cust-list", 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "ord-list-4", page[0].ID)
		assert.Equal(t, "ord-list-3", page[1].ID)
		assert.Len(t, page[0].Items, 2)

		page, err = repo.ListByCustomer(ctx, "cust-list", 10, 4)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "ord-list-0", page[0].ID)

		page, err = repo.ListByCustomer(ctx, "cust-nobody", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("ReturnedOrdersAreDetached", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestOrder(t, "ord-copy", "ORD-COPY", "cust-copy", testNow)))

		got, err := repo.GetByID(ctx, "ord-copy")
		require.NoError(t, err)
		got.Status = domain.OrderStatusDelivered
		got.Items[0].Quantity = 99

		again, err := repo.GetByID(ctx, "ord-copy")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, again.Status)
		assert.Equal(t, 2, again.Items[0].Quantity)
	})
}

func runCartContract(t *testing.T, carts editableCart) {
	ctx := context.Background()

	t.Run("SetGetClear", func(t *testing.T) {
		require.NoError(t, carts.SetItem(ctx, "cart-1", "A", 2))
		require.NoError(t, carts.SetItem(ctx, "cart-1", "B", 1))
		require.NoError(t, carts.SetItem(ctx, "cart-1", "A", 5))

		lines, err := carts.GetCart(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, []ports.CartLine{
			{ProductID: "A", Quantity: 5},
			{ProductID: "B", Quantity: 1},
		}, lines)

		require.NoError(t, carts.SetItem(ctx, "cart-1", "A", 0))
		lines, err = carts.GetCart(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, []ports.CartLine{{ProductID: "B", Quantity: 1}}, lines)

		require.NoError(t, carts.ClearCart(ctx, "cart-1"))
		lines, err = carts.GetCart(ctx, "cart-1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("UnknownCartIsEmpty", func(t *testing.T) {
		lines, err := carts.GetCart(ctx, "cart-nobody")
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.NoError(t, carts.ClearCart(ctx, "cart-nobody"))
	})
}
