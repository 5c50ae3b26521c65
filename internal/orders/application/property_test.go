package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"go-orders/internal/orders/domain"
)

// Any sequence of operations on one order either leaves its quantity reserved
// or returns it exactly once, stock is back exactly when the order is cancelled
// or refunded, and terminal statuses never change.
func TestOrderOperations_StockIsConserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const initial = 20
		quantity := rapid.IntRange(1, initial).Draw(rt, "quantity")

		f := newFixture(t, []domain.Product{product("P1", "7.25", initial)})
		ctx := context.Background()
		output, err := f.manager.CreateOrder(ctx, validInput("cust-1", ItemRequest{ProductID: "P1", Quantity: quantity}))
		if err != nil {
			rt.Fatalf("create: %v", err)
		}
		orderID := output.Order.ID
		restored := false

		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before, err := f.manager.GetOrder(ctx, GetOrderInput{ID: orderID})
			if err != nil {
				rt.Fatalf("get: %v", err)
			}

			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				status := rapid.SampledFrom(domain.AllStatuses).Draw(rt, "status")
				_, _ = f.manager.UpdateStatus(ctx, UpdateStatusInput{OrderID: orderID, Status: status, ActorID: "admin-1"})
			case 1:
				_, _ = f.manager.ProcessPayment(ctx, ProcessPaymentInput{OrderID: orderID, TransactionID: "txn"})
			case 2:
				_, _ = f.manager.CancelOrder(ctx, CancelOrderInput{OrderID: orderID, ActorID: "cust-1", ActorRole: domain.RoleCustomer})
			case 3:
				cents := rapid.Int64Range(1, before.Order.Total.Shift(2).IntPart()).Draw(rt, "refund_cents")
				_, _ = f.manager.ProcessRefund(ctx, ProcessRefundInput{OrderID: orderID, Amount: decimal.New(cents, -2)})
			case 4:
				_, _ = f.manager.AddTracking(ctx, AddTrackingInput{OrderID: orderID, TrackingNumber: "TRK"})
			}

			after, err := f.manager.GetOrder(ctx, GetOrderInput{ID: orderID})
			if err != nil {
				rt.Fatalf("get: %v", err)
			}
			if before.Order.Status.IsTerminal() && after.Order.Status != before.Order.Status {
				rt.Fatalf("terminal status %s changed to %s", before.Order.Status, after.Order.Status)
			}
			if len(after.Order.StatusHistory) < len(before.Order.StatusHistory) {
				rt.Fatalf("history shrank")
			}
			if err := after.Order.VerifyTotals(); err != nil {
				rt.Fatalf("totals: %v", err)
			}

			stock := f.inventory.Stock("P1")
			switch stock {
			case initial - quantity:
				if restored {
					rt.Fatalf("stock reserved again after being restored")
				}
			case initial:
				restored = true
			default:
				rt.Fatalf("unexpected stock %d (initial %d, quantity %d)", stock, initial, quantity)
			}
			if after.Order.Status.IsTerminal() != (stock == initial) {
				rt.Fatalf("status %s with stock %d (initial %d)", after.Order.Status, stock, initial)
			}
		}
	})
}
