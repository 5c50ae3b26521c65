package events

import "time"

// Exchange names
const (
	ExchangeUsers  = "users.events"
	ExchangeOrders = "orders.events"
)

// Routing keys
const (
	RoutingKeyUserCreated        = "user.created"
	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"
	RoutingKeyOrderPaid          = "order.paid"
	RoutingKeyOrderRefunded      = "order.refunded"
	RoutingKeyOrderCancelled     = "order.cancelled"
	RoutingKeyOrderShipped       = "order.shipped"
)

// SchemaVersion is stamped on every envelope
const SchemaVersion = "1.0"

// UserCreatedEvent is published by the users service when a customer account is created
type UserCreatedEvent struct {
	Version   string             `json:"version"`
	EventType string             `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	TraceID   string             `json:"trace_id"`
	Payload   UserCreatedPayload `json:"payload"`
}

// UserCreatedPayload contains user data
type UserCreatedPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(id, name, email string, createdAt time.Time, traceID string) *UserCreatedEvent {
	return &UserCreatedEvent{
		Version:   SchemaVersion,
		EventType: RoutingKeyUserCreated,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Payload: UserCreatedPayload{
			ID:        id,
			Name:      name,
			Email:     email,
			CreatedAt: createdAt,
		},
	}
}

// OrderEvent is the envelope for every order lifecycle event
type OrderEvent struct {
	Version   string       `json:"version"`
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	TraceID   string       `json:"trace_id"`
	Payload   OrderPayload `json:"payload"`
}

// OrderPayload is the order snapshot carried by order events
type OrderPayload struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"order_number"`
	CustomerID     string    `json:"customer_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	Total          string    `json:"total"`
	Currency       string    `json:"currency"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	RefundAmount   string    `json:"refund_amount,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewOrderEvent wraps an order payload in a versioned envelope
func NewOrderEvent(eventType string, payload OrderPayload, traceID string) *OrderEvent {
	return &OrderEvent{
		Version:   SchemaVersion,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Payload:   payload,
	}
}
