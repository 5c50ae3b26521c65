package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"go-orders/pkg/errors"
)

var baseTime = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newPendingOrder(t testing.TB) *Order {
	t.Helper()
	product := Product{ID: "P1", Name: "Mug", Price: decimal.RequireFromString("10.00")}
	order, err := NewOrder(NewOrderParams{
		ID:            "ord-1",
		OrderNumber:   "ORD-1",
		CustomerID:    "cust-1",
		Lines:         []OrderLine{product.Line(2)},
		PaymentMethod: PaymentMethodCreditCard,
		Shipping: Shipping{
			Address: Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"},
		},
		TaxRate:      decimal.RequireFromString("0.1"),
		ShippingCost: decimal.RequireFromString("5"),
		Currency:     CurrencyUSD,
		ActorID:      "cust-1",
		Now:          baseTime,
	})
	require.NoError(t, err)
	return order
}

func TestCanTransition(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {OrderStatusRefunded},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range AllStatuses {
		want := s == OrderStatusCancelled || s == OrderStatusRefunded
		assert.Equal(t, want, s.IsTerminal(), string(s))
	}
	assert.False(t, OrderStatus("lost").IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	_, err = ParseOrderStatus("lost")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestApplyTransition(t *testing.T) {
	t.Run("records history with default note", func(t *testing.T) {
		order := newPendingOrder(t)

		restock, err := order.ApplyTransition(OrderStatusConfirmed, "admin-1", "", baseTime.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, restock)
		assert.Equal(t, OrderStatusConfirmed, order.Status)
		require.Len(t, order.StatusHistory, 2)
		last := order.StatusHistory[1]
		assert.Equal(t, "status changed from pending to confirmed", last.Note)
		assert.Equal(t, "admin-1", last.ActorID)
		assert.True(t, order.UpdatedAt.Equal(baseTime.Add(time.Minute)))
	})

	t.Run("rejects transition outside the table", func(t *testing.T) {
		order := newPendingOrder(t)

		_, err := order.ApplyTransition(OrderStatusShipped, "admin-1", "", baseTime)

		appErr := errors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.CodeInvalidStateTransition, appErr.Code)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Len(t, order.StatusHistory, 1)
	})

	t.Run("cancel asks for restock", func(t *testing.T) {
		order := newPendingOrder(t)

		restock, err := order.ApplyTransition(OrderStatusCancelled, "admin-1", "", baseTime)

		require.NoError(t, err)
		assert.True(t, restock)
	})

	t.Run("refunded through the table refunds a paid order in full", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaid("txn-1", baseTime))
		for _, s := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
			_, err := order.ApplyTransition(s, "admin-1", "", baseTime)
			require.NoError(t, err)
		}

		restock, err := order.ApplyTransition(OrderStatusRefunded, "admin-1", "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, restock)
		assert.Equal(t, OrderStatusRefunded, order.Status)
		assert.Equal(t, PaymentStatusRefunded, order.Payment.Status)
		assert.Equal(t, "27.00", order.Payment.RefundAmount.StringFixed(2))
		require.NotNil(t, order.Payment.RefundedAt)

		_, err = order.Refund(decimal.NewFromInt(1), "admin-1", "", baseTime.Add(2*time.Hour))
		assert.True(t, errors.Is(err, errors.CodePaymentNotCompleted))
	})

	t.Run("refunded without a payment still asks for restock", func(t *testing.T) {
		order := newPendingOrder(t)
		for _, s := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
			_, err := order.ApplyTransition(s, "admin-1", "", baseTime)
			require.NoError(t, err)
		}

		restock, err := order.ApplyTransition(OrderStatusRefunded, "admin-1", "", baseTime)

		require.NoError(t, err)
		assert.True(t, restock)
		assert.Equal(t, PaymentStatusPending, order.Payment.Status)
		assert.True(t, order.Payment.RefundAmount.IsZero())
	})

	t.Run("shipping and delivery stamp timestamps once", func(t *testing.T) {
		order := newPendingOrder(t)
		for i, s := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
			_, err := order.ApplyTransition(s, "admin-1", "", baseTime.Add(time.Duration(i+1)*time.Hour))
			require.NoError(t, err)
		}

		require.NotNil(t, order.Shipping.ShippedAt)
		require.NotNil(t, order.Shipping.DeliveredAt)
		assert.True(t, order.Shipping.ShippedAt.Equal(baseTime.Add(3*time.Hour)))
		assert.True(t, order.Shipping.DeliveredAt.Equal(baseTime.Add(4*time.Hour)))
	})
}

func TestAppendHistory_SkipsExactRepeat(t *testing.T) {
	order := newPendingOrder(t)
	entry := StatusEntry{Status: OrderStatusPending, Timestamp: baseTime.Add(time.Minute), ActorID: "cust-1", Note: "order placed"}

	order.appendHistory(entry)
	assert.Len(t, order.StatusHistory, 1)

	entry.Note = "reminder sent"
	order.appendHistory(entry)
	assert.Len(t, order.StatusHistory, 2)
}

func TestMarkPaid(t *testing.T) {
	order := newPendingOrder(t)

	require.NoError(t, order.MarkPaid("txn-1", baseTime.Add(time.Minute)))
	assert.Equal(t, OrderStatusConfirmed, order.Status)
	assert.Equal(t, PaymentStatusCompleted, order.Payment.Status)
	assert.Equal(t, "txn-1", order.Payment.TransactionID)
	assert.Equal(t, "payment received, order confirmed automatically", order.StatusHistory[1].Note)

	err := order.MarkPaid("txn-2", baseTime.Add(2*time.Minute))
	assert.True(t, errors.Is(err, errors.CodeAlreadyPaid))
	assert.Equal(t, "txn-1", order.Payment.TransactionID)
}

func TestMarkPaid_ProcessingKeepsStatus(t *testing.T) {
	order := newPendingOrder(t)
	order.Status = OrderStatusProcessing

	require.NoError(t, order.MarkPaid("txn-1", baseTime))

	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.Len(t, order.StatusHistory, 1)
}

func TestMarkPaymentFailed(t *testing.T) {
	order := newPendingOrder(t)

	require.NoError(t, order.MarkPaymentFailed(baseTime))
	assert.Equal(t, PaymentStatusFailed, order.Payment.Status)
	assert.Equal(t, OrderStatusPending, order.Status)

	require.NoError(t, order.MarkPaid("txn-retry", baseTime))
	assert.True(t, errors.Is(order.MarkPaymentFailed(baseTime), errors.CodeAlreadyPaid))
}

func TestCaptureClaim(t *testing.T) {
	t.Run("only one capture holds the claim", func(t *testing.T) {
		order := newPendingOrder(t)

		previous, err := order.BeginCapture(baseTime)

		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, previous)
		assert.Equal(t, PaymentStatusAuthorizing, order.Payment.Status)
		assert.Equal(t, OrderStatusPending, order.Status)

		_, err = order.BeginCapture(baseTime)
		assert.True(t, errors.Is(err, errors.CodePaymentInProgress))
	})

	t.Run("completion confirms the order", func(t *testing.T) {
		order := newPendingOrder(t)
		_, err := order.BeginCapture(baseTime)
		require.NoError(t, err)

		require.NoError(t, order.CompleteCapture("txn-1", baseTime.Add(time.Second)))

		assert.Equal(t, PaymentStatusCompleted, order.Payment.Status)
		assert.Equal(t, "txn-1", order.Payment.TransactionID)
		assert.Equal(t, OrderStatusConfirmed, order.Status)
	})

	t.Run("completion requires a claim", func(t *testing.T) {
		order := newPendingOrder(t)

		err := order.CompleteCapture("txn-1", baseTime)

		assert.True(t, errors.Is(err, errors.CodePaymentNotCompleted))
		assert.Equal(t, PaymentStatusPending, order.Payment.Status)
	})

	t.Run("release restores the prior payment status", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaymentFailed(baseTime))
		previous, err := order.BeginCapture(baseTime)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusFailed, previous)

		order.ReleaseCapture(previous, baseTime)

		assert.Equal(t, PaymentStatusFailed, order.Payment.Status)
		assert.Len(t, order.StatusHistory, 1)
	})

	t.Run("claimed payment blocks other payment changes", func(t *testing.T) {
		order := newPendingOrder(t)
		_, err := order.BeginCapture(baseTime)
		require.NoError(t, err)

		assert.True(t, errors.Is(order.MarkPaid("txn-x", baseTime), errors.CodePaymentInProgress))
		_, err = order.Cancel("cust-1", "", baseTime)
		assert.True(t, errors.Is(err, errors.CodePaymentInProgress))
		_, err = order.ApplyTransition(OrderStatusCancelled, "admin-1", "", baseTime)
		assert.True(t, errors.Is(err, errors.CodePaymentInProgress))
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("paid or terminal orders cannot be claimed", func(t *testing.T) {
		paid := newPendingOrder(t)
		require.NoError(t, paid.MarkPaid("txn-1", baseTime))
		_, err := paid.BeginCapture(baseTime)
		assert.True(t, errors.Is(err, errors.CodeAlreadyPaid))

		cancelled := newPendingOrder(t)
		_, err = cancelled.Cancel("cust-1", "", baseTime)
		require.NoError(t, err)
		_, err = cancelled.BeginCapture(baseTime)
		assert.True(t, errors.Is(err, errors.CodeInvalidStateTransition))
	})
}

func TestRefund(t *testing.T) {
	t.Run("requires completed payment", func(t *testing.T) {
		order := newPendingOrder(t)
		_, err := order.Refund(decimal.NewFromInt(1), "admin-1", "", baseTime)
		assert.True(t, errors.Is(err, errors.CodePaymentNotCompleted))
	})

	t.Run("rejects non-positive and excessive amounts", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaid("txn-1", baseTime))

		_, err := order.Refund(decimal.Zero, "admin-1", "", baseTime)
		assert.True(t, errors.Is(err, errors.CodeValidation))

		_, err = order.Refund(decimal.RequireFromString("27.01"), "admin-1", "", baseTime)
		assert.True(t, errors.Is(err, errors.CodeRefundExceedsTotal))
		assert.Equal(t, PaymentStatusCompleted, order.Payment.Status)
	})

	t.Run("full refund moves to refunded", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaid("txn-1", baseTime))

		restock, err := order.Refund(decimal.RequireFromString("27.00"), "admin-1", "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, restock)
		assert.Equal(t, OrderStatusRefunded, order.Status)
		assert.Equal(t, PaymentStatusRefunded, order.Payment.Status)
		assert.Equal(t, "27.00", order.Payment.RefundAmount.StringFixed(2))
		assert.Equal(t, "refund of 27.00 USD issued", order.StatusHistory[len(order.StatusHistory)-1].Note)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaid("txn-1", baseTime))

		_, err := order.Refund(decimal.RequireFromString("12.345"), "admin-1", "", baseTime)

		require.NoError(t, err)
		assert.Equal(t, "12.35", order.Payment.RefundAmount.String())
	})
}

func TestCancel(t *testing.T) {
	t.Run("unpaid", func(t *testing.T) {
		order := newPendingOrder(t)

		refunded, err := order.Cancel("cust-1", "changed my mind", baseTime)

		require.NoError(t, err)
		assert.False(t, refunded)
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "order cancelled: changed my mind", order.StatusHistory[1].Note)
	})

	t.Run("paid refunds in full", func(t *testing.T) {
		order := newPendingOrder(t)
		require.NoError(t, order.MarkPaid("txn-1", baseTime))

		refunded, err := order.Cancel("cust-1", "", baseTime)

		require.NoError(t, err)
		assert.True(t, refunded)
		assert.Equal(t, PaymentStatusRefunded, order.Payment.Status)
		assert.True(t, order.Payment.RefundAmount.Equal(order.Total))
		assert.Equal(t, "order cancelled (refund of 27.00 USD issued)", order.StatusHistory[2].Note)
	})

	t.Run("rejected once processing", func(t *testing.T) {
		order := newPendingOrder(t)
		order.Status = OrderStatusProcessing

		_, err := order.Cancel("cust-1", "", baseTime)

		assert.True(t, errors.Is(err, errors.CodeInvalidStateTransition))
	})
}

func TestAddTracking(t *testing.T) {
	order := newPendingOrder(t)

	_, err := order.AddTracking("", time.Time{}, "admin-1", baseTime)
	assert.ErrorIs(t, err, ErrTrackingNumberRequired)

	changed, err := order.AddTracking("1Z999", baseTime.Add(-time.Hour), "admin-1", baseTime)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusShipped, order.Status)
	assert.True(t, order.Shipping.ShippedAt.Equal(baseTime.Add(-time.Hour)))

	_, err = order.ApplyTransition(OrderStatusDelivered, "admin-1", "", baseTime)
	require.NoError(t, err)
	changed, err = order.AddTracking("1Z000", time.Time{}, "admin-1", baseTime)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, OrderStatusDelivered, order.Status)
	assert.Equal(t, "1Z000", order.Shipping.TrackingNumber)
	assert.True(t, order.Shipping.ShippedAt.Equal(baseTime.Add(-time.Hour)))

	_, err = order.AddTracking("1Z001", baseTime.Add(-2*time.Hour), "admin-1", baseTime)
	require.NoError(t, err)
	assert.True(t, order.Shipping.ShippedAt.Equal(baseTime.Add(-2*time.Hour)))
}

func TestCancellableBy(t *testing.T) {
	order := newPendingOrder(t)

	assert.True(t, order.CancellableBy("cust-1", RoleCustomer))
	assert.False(t, order.CancellableBy("cust-2", RoleCustomer))
	assert.False(t, order.CancellableBy("", RoleCustomer))
	assert.True(t, order.CancellableBy("admin-1", RoleAdmin))
	assert.True(t, order.CancellableBy("", RoleSystem))
}

// Random requests never leave a terminal status, history only grows and
// restock is requested at most once.
func TestLifecycle_StateMachine(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		order := newPendingOrder(t)
		restocks := 0

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			requested := rapid.SampledFrom(AllStatuses).Draw(rt, "requested")
			before := order.Status
			historyLen := len(order.StatusHistory)

			restock, err := order.ApplyTransition(requested, "admin", "", baseTime.Add(time.Duration(i)*time.Minute))

			if CanTransition(before, requested) {
				if err != nil {
					rt.Fatalf("%s -> %s rejected: %v", before, requested, err)
				}
				if order.Status != requested {
					rt.Fatalf("status %s, want %s", order.Status, requested)
				}
				if len(order.StatusHistory) != historyLen+1 {
					rt.Fatalf("history not appended")
				}
			} else {
				if err == nil {
					rt.Fatalf("%s -> %s accepted", before, requested)
				}
				if order.Status != before || len(order.StatusHistory) != historyLen {
					rt.Fatalf("rejected transition mutated the order")
				}
			}
			if restock {
				restocks++
				if !order.Status.IsTerminal() {
					rt.Fatalf("restock requested on entering %s", order.Status)
				}
			}
			if before.IsTerminal() && order.Status != before {
				rt.Fatalf("left terminal status %s", before)
			}
		}
		if restocks > 1 {
			rt.Fatalf("restock requested %d times", restocks)
		}
		if err := order.VerifyTotals(); err != nil {
			rt.Fatalf("totals: %v", err)
		}
	})
}
