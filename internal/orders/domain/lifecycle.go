package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// AllStatuses lists every status in pipeline order followed by the terminal ones
var AllStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// pipeline position; terminal statuses sit outside the pipeline
var pipelineRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// ParseOrderStatus validates a raw status string
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", NewUnknownStatus(raw)
	}
	return s, nil
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether from -> to is in the transition table
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition decides whether current may move to requested. It returns the
// resulting status and the default history note, or an InvalidStateTransition error.
func Transition(current, requested OrderStatus) (OrderStatus, string, error) {
	if !requested.Valid() {
		return current, "", NewUnknownStatus(string(requested))
	}
	if !CanTransition(current, requested) {
		return current, "", NewInvalidTransition(current, requested)
	}
	return requested, fmt.Sprintf("status changed from %s to %s", current, requested), nil
}

// ApplyTransition moves the order through the transition table and appends a
// history entry. It reports whether stock must be restored, which is the case
// on the first entry into cancelled or refunded. Entering refunded with a
// completed payment refunds the full total.
func (o *Order) ApplyTransition(requested OrderStatus, actorID, note string, now time.Time) (restock bool, err error) {
	previous := o.Status
	next, defaultNote, err := Transition(previous, requested)
	if err != nil {
		return false, err
	}
	if next.IsTerminal() && o.Payment.Status == PaymentStatusAuthorizing {
		return false, NewPaymentInProgress(o.ID)
	}
	if note == "" {
		note = defaultNote
	}

	if next == OrderStatusRefunded && o.Payment.Status == PaymentStatusCompleted {
		o.Payment.Status = PaymentStatusRefunded
		o.Payment.RefundAmount = o.Total
		o.Payment.RefundedAt = timePtr(now)
	}

	o.setStatus(next, actorID, note, now)
	return next.IsTerminal(), nil
}

func (o *Order) setStatus(next OrderStatus, actorID, note string, now time.Time) {
	o.Status = next
	switch next {
	case OrderStatusShipped:
		if o.Shipping.ShippedAt == nil {
			o.Shipping.ShippedAt = timePtr(now)
		}
	case OrderStatusDelivered:
		if o.Shipping.DeliveredAt == nil {
			o.Shipping.DeliveredAt = timePtr(now)
		}
	}
	o.appendHistory(StatusEntry{
		Status:    next,
		Timestamp: now.UTC(),
		ActorID:   actorID,
		Note:      note,
	})
	o.touch(now)
}

// MarkPaid records a payment captured outside this service. A pending order is
// confirmed as a side effect.
func (o *Order) MarkPaid(transactionID string, now time.Time) error {
	if o.Payment.Status == PaymentStatusAuthorizing {
		return NewPaymentInProgress(o.ID)
	}
	return o.markPaid(transactionID, now)
}

// BeginCapture claims the payment for a capture by the payment authority. Only
// one capture can hold the claim; it returns the payment status to fall back to.
func (o *Order) BeginCapture(now time.Time) (PaymentStatus, error) {
	switch o.Payment.Status {
	case PaymentStatusCompleted:
		return "", NewAlreadyPaid(o.ID)
	case PaymentStatusRefunded:
		return "", NewPaymentRefunded(o.ID)
	case PaymentStatusAuthorizing:
		return "", NewPaymentInProgress(o.ID)
	}
	if o.Status.IsTerminal() {
		return "", NewInvalidTransition(o.Status, OrderStatusConfirmed)
	}

	previous := o.Payment.Status
	o.Payment.Status = PaymentStatusAuthorizing
	o.touch(now)
	return previous, nil
}

// CompleteCapture records the authority's approval of a claimed capture
func (o *Order) CompleteCapture(transactionID string, now time.Time) error {
	if o.Payment.Status != PaymentStatusAuthorizing {
		return NewPaymentNotCompleted(o.ID, o.Payment.Status)
	}
	return o.markPaid(transactionID, now)
}

// ReleaseCapture gives up a claimed capture that never reached a verdict
func (o *Order) ReleaseCapture(previous PaymentStatus, now time.Time) {
	if o.Payment.Status != PaymentStatusAuthorizing {
		return
	}
	o.Payment.Status = previous
	o.touch(now)
}

func (o *Order) markPaid(transactionID string, now time.Time) error {
	switch o.Payment.Status {
	case PaymentStatusCompleted:
		return NewAlreadyPaid(o.ID)
	case PaymentStatusRefunded:
		return NewPaymentRefunded(o.ID)
	}
	if o.Status.IsTerminal() {
		return NewInvalidTransition(o.Status, OrderStatusConfirmed)
	}

	o.Payment.Status = PaymentStatusCompleted
	o.Payment.TransactionID = transactionID
	o.Payment.PaidAt = timePtr(now)

	if o.Status == OrderStatusPending {
		o.setStatus(OrderStatusConfirmed, "", "payment received, order confirmed automatically", now)
	}
	o.touch(now)
	return nil
}

// MarkPaymentFailed records a declined capture. The order status is unchanged.
func (o *Order) MarkPaymentFailed(now time.Time) error {
	if o.Payment.Status == PaymentStatusCompleted {
		return NewAlreadyPaid(o.ID)
	}
	o.Payment.Status = PaymentStatusFailed
	o.touch(now)
	return nil
}

// Refund records a refund of amount. From a non-terminal status the order moves
// to refunded and stock must be restored; an order already cancelled keeps its
// status because its stock was returned on cancellation.
func (o *Order) Refund(amount decimal.Decimal, actorID, note string, now time.Time) (restock bool, err error) {
	if o.Payment.Status != PaymentStatusCompleted {
		return false, NewPaymentNotCompleted(o.ID, o.Payment.Status)
	}
	if !amount.IsPositive() {
		return false, NewInvalidAmount("refund_amount")
	}
	amount = RoundMoney(amount)
	if amount.GreaterThan(o.Total) {
		return false, NewRefundExceedsTotal(amount.StringFixed(2), o.Total.StringFixed(2))
	}

	o.Payment.Status = PaymentStatusRefunded
	o.Payment.RefundAmount = amount
	o.Payment.RefundedAt = timePtr(now)

	if note == "" {
		note = fmt.Sprintf("refund of %s %s issued", amount.StringFixed(2), o.Currency)
	}

	if o.Status.IsTerminal() {
		o.touch(now)
		return false, nil
	}

	o.setStatus(OrderStatusRefunded, actorID, note, now)
	return true, nil
}

// Cancel moves a pending or confirmed order to cancelled. A completed payment
// is refunded in full as part of the same change.
func (o *Order) Cancel(actorID, reason string, now time.Time) (refunded bool, err error) {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return false, NewInvalidTransition(o.Status, OrderStatusCancelled)
	}
	if o.Payment.Status == PaymentStatusAuthorizing {
		return false, NewPaymentInProgress(o.ID)
	}

	note := "order cancelled"
	if reason != "" {
		note = "order cancelled: " + reason
	}

	if o.Payment.Status == PaymentStatusCompleted {
		o.Payment.Status = PaymentStatusRefunded
		o.Payment.RefundAmount = o.Total
		o.Payment.RefundedAt = timePtr(now)
		refunded = true
		note += fmt.Sprintf(" (refund of %s %s issued)", o.Total.StringFixed(2), o.Currency)
	}

	o.setStatus(OrderStatusCancelled, actorID, note, now)
	return refunded, nil
}

// AddTracking records shipment data. An order earlier than shipped in the
// pipeline is moved to shipped. A zero shippedAt keeps an existing ship date.
func (o *Order) AddTracking(trackingNumber string, shippedAt time.Time, actorID string, now time.Time) (statusChanged bool, err error) {
	if trackingNumber == "" {
		return false, ErrTrackingNumberRequired
	}
	if o.Status.IsTerminal() {
		return false, NewInvalidTransition(o.Status, OrderStatusShipped)
	}

	o.Shipping.TrackingNumber = trackingNumber
	switch {
	case !shippedAt.IsZero():
		o.Shipping.ShippedAt = timePtr(shippedAt)
	case o.Shipping.ShippedAt == nil:
		o.Shipping.ShippedAt = timePtr(now)
	}

	note := "tracking number " + trackingNumber
	status := o.Status
	if pipelineRank[o.Status] < pipelineRank[OrderStatusShipped] {
		status = OrderStatusShipped
		statusChanged = true
	}

	o.setStatus(status, actorID, note, now)
	return statusChanged, nil
}
