package domain

import (
	"fmt"
	"strings"

	"go-orders/pkg/errors"
)

// Domain-specific errors
var (
	ErrCustomerIDRequired     = errors.NewValidation("customer_id is required", nil)
	ErrItemsRequired          = errors.NewValidation("order must contain at least one item", nil)
	ErrInvalidTaxRate         = errors.NewValidation("tax_rate must be between 0 and 1", nil)
	ErrTrackingNumberRequired = errors.NewValidation("tracking_number is required", nil)
	ErrNoteRequired           = errors.NewValidation("note is required", nil)
	ErrOrderIDRequired        = errors.NewValidation("order id is required", nil)
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id string) error {
	return errors.NewNotFound("order", id)
}

// NewOrderNumberNotFound creates a not found error for an order number lookup
func NewOrderNumberNotFound(number string) error {
	return &errors.AppError{
		Code:    errors.CodeNotFound,
		Message: fmt.Sprintf("order with number '%s' not found", number),
		Details: map[string]interface{}{"resource": "order", "order_number": number},
	}
}

// NewProductNotFound creates a not found error for a catalog product
func NewProductNotFound(id string) error {
	return errors.NewNotFound("product", id)
}

// NewCustomerNotFound creates a not found error for a customer
func NewCustomerNotFound(id string) error {
	return errors.NewNotFound("customer", id)
}

// NewInvalidQuantity rejects a line quantity below one
func NewInvalidQuantity(productID string, quantity int) error {
	return errors.NewValidation("quantity must be at least 1", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// NewDuplicateProduct rejects a request naming the same product twice
func NewDuplicateProduct(productID string) error {
	return errors.NewValidation("each product may appear only once per order", map[string]interface{}{
		"product_id": productID,
	})
}

// NewProductInactive rejects a product that is no longer sold
func NewProductInactive(productID string) error {
	return errors.NewValidation("product is not available for purchase", map[string]interface{}{
		"product_id": productID,
	})
}

// NewInvalidAmount rejects a negative or zero monetary field
func NewInvalidAmount(field string) error {
	return errors.NewValidation(field+" has an invalid amount", map[string]interface{}{"field": field})
}

// NewNegativeTotal rejects totals that would fall below zero
func NewNegativeTotal(total string) error {
	return errors.NewValidation("order total cannot be negative", map[string]interface{}{"total": total})
}

// NewTotalsMismatch reports a broken monetary invariant
func NewTotalsMismatch(field, ref string) error {
	return errors.NewInternal("order totals are inconsistent", fmt.Errorf("%s mismatch for %s", field, ref))
}

// NewInvalidAddress lists the missing address fields
func NewInvalidAddress(missing []string) error {
	return errors.NewValidation("shipping address is incomplete", map[string]interface{}{
		"missing": strings.Join(missing, ","),
	})
}

// NewInvalidPaymentMethod rejects an unsupported payment method
func NewInvalidPaymentMethod(method string) error {
	return errors.NewValidation("unsupported payment method", map[string]interface{}{"payment_method": method})
}

// NewUnsupportedCurrency rejects a currency outside the supported set
func NewUnsupportedCurrency(currency string) error {
	return errors.NewValidation("unsupported currency", map[string]interface{}{"currency": currency})
}

// NewUnknownStatus rejects an unrecognised status value
func NewUnknownStatus(status string) error {
	return errors.NewValidation("unknown order status", map[string]interface{}{"status": status})
}

// NewInvalidTransition reports an illegal status change
func NewInvalidTransition(from, to OrderStatus) error {
	return errors.NewInvalidStateTransition(string(from), string(to))
}

// NewAlreadyPaid reports a second payment capture
func NewAlreadyPaid(orderID string) error {
	return &errors.AppError{
		Code:    errors.CodeAlreadyPaid,
		Message: "order has already been paid",
		Details: map[string]interface{}{"order_id": orderID},
	}
}

// NewPaymentRefunded reports a payment attempt on a refunded order
func NewPaymentRefunded(orderID string) error {
	return &errors.AppError{
		Code:    errors.CodeAlreadyPaid,
		Message: "order payment has already been refunded",
		Details: map[string]interface{}{"order_id": orderID},
	}
}

// NewPaymentInProgress reports a capture that is already running for the order
func NewPaymentInProgress(orderID string) error {
	return &errors.AppError{
		Code:    errors.CodePaymentInProgress,
		Message: "a payment capture is already in progress for this order",
		Details: map[string]interface{}{"order_id": orderID},
	}
}

// NewPaymentNotCompleted reports a refund on an order without a completed payment
func NewPaymentNotCompleted(orderID string, status PaymentStatus) error {
	return &errors.AppError{
		Code:    errors.CodePaymentNotCompleted,
		Message: "order payment is not completed",
		Details: map[string]interface{}{"order_id": orderID, "payment_status": string(status)},
	}
}

// NewRefundExceedsTotal reports a refund larger than the order total
func NewRefundExceedsTotal(amount, total string) error {
	return &errors.AppError{
		Code:    errors.CodeRefundExceedsTotal,
		Message: fmt.Sprintf("refund amount %s exceeds order total %s", amount, total),
		Details: map[string]interface{}{"refund_amount": amount, "total": total},
	}
}

// NewPaymentDeclined reports a capture rejected by the payment authority
func NewPaymentDeclined(orderID, reason string) error {
	return &errors.AppError{
		Code:    errors.CodePaymentFailed,
		Message: "payment was declined",
		Details: map[string]interface{}{"order_id": orderID, "reason": reason},
	}
}

// NewForbiddenCancel reports an actor who may not cancel the order
func NewForbiddenCancel(orderID string) error {
	return &errors.AppError{
		Code:    errors.CodeForbidden,
		Message: "only the customer who placed the order or an administrator may cancel it",
		Details: map[string]interface{}{"order_id": orderID},
	}
}
