package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"go-orders/internal/orders/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create stores a new order. A duplicate order number yields a CONFLICT error.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByNumber retrieves an order by its order number
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)

	// Update replaces the stored order if its version still equals order.Version,
	// then increments order.Version. A stale version yields a CONFLICT error.
	Update(ctx context.Context, order *domain.Order) error

	// ListByCustomer returns a customer's orders, newest first
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
}

// InventoryLedger is the catalog/inventory interface the core consumes
type InventoryLedger interface {
	// GetProduct returns the current product snapshot
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// AdjustStock atomically adds delta to the product's stock and returns the
	// new level. A negative delta only applies when enough stock is available;
	// otherwise it fails with INSUFFICIENT_STOCK and changes nothing.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}

// CustomerDirectory answers whether a customer exists
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, id string) (bool, error)
}

// CustomerStore is the writable side of the customer read model
type CustomerStore interface {
	CustomerDirectory
	UpsertCustomer(ctx context.Context, customer *domain.Customer) error
}

// CartLine is one entry of a customer's cart
type CartLine struct {
	ProductID string
	Quantity  int
}

// CartStore reads and clears customer carts
type CartStore interface {
	GetCart(ctx context.Context, customerID string) ([]CartLine, error)
	ClearCart(ctx context.Context, customerID string) error
}

// PaymentDetails is what the payment authority needs to capture a payment
type PaymentDetails struct {
	Method   domain.PaymentMethod
	Amount   decimal.Decimal
	Currency domain.Currency
	Token    string
}

// CaptureResult is the payment authority's verdict
type CaptureResult struct {
	Success       bool
	TransactionID string
	Reason        string
}

// PaymentAuthority captures payments for orders
type PaymentAuthority interface {
	Capture(ctx context.Context, orderID string, details PaymentDetails) (*CaptureResult, error)
}

// EventPublisher defines the interface for publishing order events
type EventPublisher interface {
	// PublishOrderEvent publishes an event of eventType describing order
	PublishOrderEvent(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) error
}

// UnitOfWork runs fn so that every repository and ledger write made through
// the ctx it receives commits or rolls back together, when the backend supports it
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
