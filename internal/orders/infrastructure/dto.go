package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"go-orders/internal/orders/application"
	"go-orders/internal/orders/domain"
)

// =============================================================================
// Request DTOs
// =============================================================================

// AddressDTO is a shipping address
type AddressDTO struct {
	Street  string `json:"street" binding:"required" example:"1 Main St"`
	City    string `json:"city" binding:"required" example:"Springfield"`
	State   string `json:"state" binding:"required" example:"IL"`
	Zip     string `json:"zip" binding:"required" example:"62701"`
	Country string `json:"country" binding:"required" example:"US"`
}

// OrderItemRequest is one requested product and quantity
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"prod-1"`
	Quantity  int    `json:"quantity" binding:"required,min=1" example:"2"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required" example:"cust-1"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string             `json:"payment_method" binding:"required" example:"credit_card"`
	ShippingAddress AddressDTO         `json:"shipping_address"`
	ShippingMethod  string             `json:"shipping_method" example:"standard"`
	TaxRate         decimal.Decimal    `json:"tax_rate" swaggertype:"string" example:"0.08"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost" swaggertype:"string" example:"5.00"`
	Discount        decimal.Decimal    `json:"discount" swaggertype:"string" example:"0"`
	Currency        string             `json:"currency" example:"USD"`
	Notes           string             `json:"notes"`
}

// UpdateStatusRequest represents a status change request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"processing"`
	Note   string `json:"note"`
}

// PaymentRequest records a payment captured elsewhere
type PaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required" example:"txn_123"`
}

// CaptureRequest asks the service to capture payment through the payment authority
type CaptureRequest struct {
	Token string `json:"token" example:"tok_visa"`
}

// RefundRequest represents a refund request
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"10.00"`
	Note   string          `json:"note"`
}

// CancelRequest represents a cancellation request
type CancelRequest struct {
	Reason string `json:"reason" example:"changed my mind"`
}

// TrackingRequest records a shipment
type TrackingRequest struct {
	TrackingNumber string     `json:"tracking_number" binding:"required" example:"1Z999AA10123456784"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
}

// NoteRequest appends an admin note
type NoteRequest struct {
	Note string `json:"note" binding:"required" example:"customer called about delivery"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// OrderLineResponse is one order line
type OrderLineResponse struct {
	ProductID string `json:"product_id" example:"prod-1"`
	Name      string `json:"name" example:"Coffee mug"`
	Image     string `json:"image,omitempty"`
	UnitPrice string `json:"unit_price" example:"10.00"`
	Quantity  int    `json:"quantity" example:"2"`
	LineTotal string `json:"line_total" example:"20.00"`
}

// PaymentResponse is the payment section of an order
type PaymentResponse struct {
	Method        string     `json:"method" example:"credit_card"`
	Status        string     `json:"status" example:"completed"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	RefundAmount  string     `json:"refund_amount,omitempty"`
}

// ShippingResponse is the shipping section of an order
type ShippingResponse struct {
	Address        AddressDTO `json:"address"`
	Method         string     `json:"method,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// StatusEntryResponse is one status history entry
type StatusEntryResponse struct {
	Status    string    `json:"status" example:"confirmed"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// NotesResponse holds the order notes
type NotesResponse struct {
	Customer string `json:"customer,omitempty"`
	Admin    string `json:"admin,omitempty"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID            string                `json:"id" example:"01HQ3Z6Y1K8W9X2V4T5R7N0M3P"`
	OrderNumber   string                `json:"order_number" example:"ORD-202403151430221234"`
	CustomerID    string                `json:"customer_id" example:"cust-1"`
	Items         []OrderLineResponse   `json:"items"`
	Subtotal      string                `json:"subtotal" example:"20.00"`
	TaxRate       string                `json:"tax_rate" example:"0.1"`
	Tax           string                `json:"tax" example:"2.00"`
	ShippingCost  string                `json:"shipping_cost" example:"5.00"`
	Discount      string                `json:"discount" example:"0.00"`
	Total         string                `json:"total" example:"27.00"`
	Currency      string                `json:"currency" example:"USD"`
	Status        string                `json:"status" example:"pending"`
	Payment       PaymentResponse       `json:"payment"`
	Shipping      ShippingResponse      `json:"shipping"`
	StatusHistory []StatusEntryResponse `json:"status_history"`
	Notes         NotesResponse         `json:"notes"`
	Version       int                   `json:"version" example:"1"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CartItemResponse is the verdict for one cart line
type CartItemResponse struct {
	ProductID string `json:"product_id" example:"prod-1"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity" example:"2"`
	Available int    `json:"available" example:"5"`
	UnitPrice string `json:"unit_price,omitempty" example:"10.00"`
	Valid     bool   `json:"valid" example:"true"`
	Reason    string `json:"reason,omitempty"`
}

// CartValidationResponse is the checkout readiness of a cart
type CartValidationResponse struct {
	CustomerID string             `json:"customer_id" example:"cust-1"`
	IsValid    bool               `json:"is_valid" example:"true"`
	Items      []CartItemResponse `json:"items"`
	Subtotal   string             `json:"subtotal" example:"20.00"`
}

// SuccessResponse is the standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	TraceID string      `json:"trace_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	TraceID string    `json:"trace_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ErrorBody contains error details
type ErrorBody struct {
	Code    string      `json:"code" example:"VALIDATION_ERROR"`
	Message string      `json:"message" example:"Invalid request body"`
	Details interface{} `json:"details,omitempty"`
}

// =============================================================================
// Mapping
// =============================================================================

func (r CreateOrderRequest) toInput(defaultCurrency string) application.CreateOrderInput {
	items := make([]application.ItemRequest, len(r.Items))
	for i, item := range r.Items {
		items[i] = application.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return application.CreateOrderInput{
		CustomerID:    r.CustomerID,
		Items:         items,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Shipping: domain.Shipping{
			Address: domain.Address{
				Street:  r.ShippingAddress.Street,
				City:    r.ShippingAddress.City,
				State:   r.ShippingAddress.State,
				Zip:     r.ShippingAddress.Zip,
				Country: r.ShippingAddress.Country,
			},
			Method: r.ShippingMethod,
		},
		TaxRate:      r.TaxRate,
		ShippingCost: r.ShippingCost,
		Discount:     r.Discount,
		Currency:     domain.Currency(currency),
		CustomerNote: r.Notes,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerID:   order.CustomerID,
		Subtotal:     money(order.Subtotal),
		TaxRate:      order.TaxRate.String(),
		Tax:          money(order.Tax),
		ShippingCost: money(order.ShippingCost),
		Discount:     money(order.Discount),
		Total:        money(order.Total),
		Currency:     string(order.Currency),
		Status:       string(order.Status),
		Payment: PaymentResponse{
			Method:        string(order.Payment.Method),
			Status:        string(order.Payment.Status),
			TransactionID: order.Payment.TransactionID,
			PaidAt:        order.Payment.PaidAt,
			RefundedAt:    order.Payment.RefundedAt,
		},
		Shipping: ShippingResponse{
			Address: AddressDTO{
				Street:  order.Shipping.Address.Street,
				City:    order.Shipping.Address.City,
				State:   order.Shipping.Address.State,
				Zip:     order.Shipping.Address.Zip,
				Country: order.Shipping.Address.Country,
			},
			Method:         order.Shipping.Method,
			TrackingNumber: order.Shipping.TrackingNumber,
			ShippedAt:      order.Shipping.ShippedAt,
			DeliveredAt:    order.Shipping.DeliveredAt,
		},
		Notes: NotesResponse{
			Customer: order.Notes.Customer,
			Admin:    order.Notes.Admin,
		},
		Version:   order.Version,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	if order.Payment.Status == domain.PaymentStatusRefunded {
		resp.Payment.RefundAmount = money(order.Payment.RefundAmount)
	}

	resp.Items = make([]OrderLineResponse, len(order.Items))
	for i, line := range order.Items {
		resp.Items[i] = OrderLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			UnitPrice: money(line.UnitPrice),
			Quantity:  line.Quantity,
			LineTotal: money(line.LineTotal),
		}
	}

	resp.StatusHistory = make([]StatusEntryResponse, len(order.StatusHistory))
	for i, entry := range order.StatusHistory {
		resp.StatusHistory[i] = StatusEntryResponse{
			Status:    string(entry.Status),
			Timestamp: entry.Timestamp,
			ActorID:   entry.ActorID,
			Note:      entry.Note,
		}
	}

	return resp
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, order := range orders {
		resp[i] = toOrderResponse(order)
	}
	return resp
}

func toCartValidationResponse(report *application.ValidationReport) CartValidationResponse {
	resp := CartValidationResponse{
		CustomerID: report.CustomerID,
		IsValid:    report.IsValid,
		Items:      make([]CartItemResponse, len(report.Items)),
		Subtotal:   money(report.Subtotal),
	}
	for i, item := range report.Items {
		resp.Items[i] = CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Available: item.Available,
			Valid:     item.Valid,
			Reason:    item.Reason,
		}
		if item.Name != "" {
			resp.Items[i].UnitPrice = money(item.UnitPrice)
		}
	}
	return resp
}
