package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-orders/internal/orders/ports"
	"go-orders/pkg/logger"
)

// DeclineToken makes the simulated authority reject a capture
const DeclineToken = "tok_decline"

// SimulatedPaymentAuthority approves captures after a fixed delay. Captures
// above the decline threshold or carrying DeclineToken are rejected.
type SimulatedPaymentAuthority struct {
	delay        time.Duration
	declineAbove decimal.Decimal
	log          *logger.Logger
}

// NewSimulatedPaymentAuthority creates the authority. A zero declineAbove disables the threshold.
func NewSimulatedPaymentAuthority(delay time.Duration, declineAbove decimal.Decimal, log *logger.Logger) *SimulatedPaymentAuthority {
	if log == nil {
		log = logger.NewNop()
	}
	return &SimulatedPaymentAuthority{delay: delay, declineAbove: declineAbove, log: log}
}

// Capture waits for the configured delay, then approves or declines
func (a *SimulatedPaymentAuthority) Capture(ctx context.Context, orderID string, details ports.PaymentDetails) (*ports.CaptureResult, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if details.Token == DeclineToken {
		return &ports.CaptureResult{Reason: "card declined"}, nil
	}
	if a.declineAbove.IsPositive() && details.Amount.GreaterThan(a.declineAbove) {
		return &ports.CaptureResult{Reason: "amount exceeds authorization limit"}, nil
	}

	txID := "txn_" + uuid.NewString()
	a.log.WithContext(ctx).Debug("payment captured",
		zap.String("order_id", orderID),
		zap.String("transaction_id", txID),
		zap.String("amount", details.Amount.StringFixed(2)),
	)
	return &ports.CaptureResult{Success: true, TransactionID: txID}, nil
}
