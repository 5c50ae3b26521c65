package application

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	"go-orders/pkg/errors"
	"go-orders/pkg/events"
	"go-orders/pkg/logger"
	"go-orders/pkg/metrics"
)

const (
	maxConflictRetries     = 3
	maxOrderNumberAttempts = 3
	defaultListLimit       = 20
	maxListLimit           = 100
)

var tracer = otel.Tracer("go-orders/internal/orders/application")

// Clock returns the current time
type Clock func() time.Time

// IDGenerator returns a new unique order ID
type IDGenerator func() string

// NumberGenerator returns a candidate order number for the given instant
type NumberGenerator func(time.Time) string

// Deps lists the collaborators of OrderManager. Orders, Inventory and
// Customers are required; the rest fall back to no-op or default behaviour.
type Deps struct {
	Orders     ports.OrderRepository
	Inventory  ports.InventoryLedger
	Customers  ports.CustomerDirectory
	Carts      ports.CartStore
	Payments   ports.PaymentAuthority
	Publisher  ports.EventPublisher
	UnitOfWork ports.UnitOfWork
	Metrics    *metrics.OrderMetrics
	Clock      Clock
	NewID      IDGenerator
	NewNumber  NumberGenerator
	Log        *logger.Logger

	// InventoryInTx is set when the ledger writes through the unit of work's
	// transaction. Otherwise stock compensation runs only after a commit.
	InventoryInTx bool
}

// OrderManager is the only component allowed to create and mutate orders and
// to adjust stock on their behalf
type OrderManager struct {
	orders    ports.OrderRepository
	inventory ports.InventoryLedger
	customers ports.CustomerDirectory
	carts     ports.CartStore
	payments  ports.PaymentAuthority
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	stockInTx bool
	metrics   *metrics.OrderMetrics
	clock     Clock
	newID     IDGenerator
	newNumber NumberGenerator
	log       *logger.Logger
}

// NewOrderManager validates deps and fills defaults
func NewOrderManager(deps Deps) (*OrderManager, error) {
	if deps.Orders == nil {
		return nil, fmt.Errorf("order manager: order repository is required")
	}
	if deps.Inventory == nil {
		return nil, fmt.Errorf("order manager: inventory ledger is required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("order manager: customer directory is required")
	}

	m := &OrderManager{
		orders:    deps.Orders,
		inventory: deps.Inventory,
		customers: deps.Customers,
		carts:     deps.Carts,
		payments:  deps.Payments,
		publisher: deps.Publisher,
		uow:       deps.UnitOfWork,
		stockInTx: deps.InventoryInTx,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		newID:     deps.NewID,
		newNumber: deps.NewNumber,
		log:       deps.Log,
	}

	if m.uow == nil {
		m.uow = directUnitOfWork{}
	}
	if m.clock == nil {
		m.clock = func() time.Time { return time.Now().UTC() }
	}
	if m.newID == nil {
		m.newID = func() string { return ulid.Make().String() }
	}
	if m.newNumber == nil {
		m.newNumber = domain.GenerateOrderNumber
	}
	if m.log == nil {
		m.log = logger.NewNop()
	}

	return m, nil
}

type directUnitOfWork struct{}

func (directUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ItemRequest is one requested (product, quantity) pair
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	CustomerID    string
	Items         []ItemRequest
	PaymentMethod domain.PaymentMethod
	Shipping      domain.Shipping
	TaxRate       decimal.Decimal
	ShippingCost  decimal.Decimal
	Discount      decimal.Decimal
	Currency      domain.Currency
	CustomerNote  string
}

// OrderOutput wraps the order returned by every order operation
type OrderOutput struct {
	Order *domain.Order
}

// CreateOrder resolves product snapshots, reserves stock all-or-nothing and
// persists a pending order. On any failure no stock stays reserved and no order exists.
func (m *OrderManager) CreateOrder(ctx context.Context, input CreateOrderInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.CreateOrder",
		trace.WithAttributes(attribute.String("customer_id", input.CustomerID)))
	defer func() { m.finish(span, "create_order", err) }()

	if input.CustomerID == "" {
		return nil, domain.ErrCustomerIDRequired
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrItemsRequired
	}
	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, domain.NewInvalidQuantity(item.ProductID, item.Quantity)
		}
		if seen[item.ProductID] {
			return nil, domain.NewDuplicateProduct(item.ProductID)
		}
		seen[item.ProductID] = true
	}

	exists, err := m.customers.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check customer")
	}
	if !exists {
		return nil, domain.NewCustomerNotFound(input.CustomerID)
	}

	lines := make([]domain.OrderLine, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := m.inventory.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, domain.NewProductInactive(product.ID)
		}
		if product.Stock < item.Quantity {
			m.countReservationFailure()
			return nil, errors.NewInsufficientStock(product.ID, item.Quantity, product.Stock)
		}
		lines = append(lines, product.Line(item.Quantity))
	}

	now := m.clock()
	order, err := domain.NewOrder(domain.NewOrderParams{
		ID:            m.newID(),
		CustomerID:    input.CustomerID,
		Lines:         lines,
		PaymentMethod: input.PaymentMethod,
		Shipping:      input.Shipping,
		TaxRate:       input.TaxRate,
		ShippingCost:  input.ShippingCost,
		Discount:      input.Discount,
		Currency:      input.Currency,
		CustomerNote:  input.CustomerNote,
		ActorID:       input.CustomerID,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		order.OrderNumber = m.newNumber(now)
		reserved := false
		err = m.uow.RunInTx(ctx, func(ctx context.Context) error {
			if err := m.reserveStock(ctx, order.Items); err != nil {
				return err
			}
			reserved = true
			return m.orders.Create(ctx, order)
		})
		if err == nil {
			break
		}
		if reserved && !m.stockInTx {
			m.releaseStock(ctx, order.Items)
		}
		if errors.Is(err, errors.CodeConflict) && attempt < maxOrderNumberAttempts {
			m.log.WithContext(ctx).Warn("order number collision, retrying",
				zap.String("order_number", order.OrderNumber),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if errors.Is(err, errors.CodeInsufficientStock) {
			m.countReservationFailure()
		}
		return nil, err
	}

	if m.carts != nil {
		if err := m.carts.ClearCart(ctx, order.CustomerID); err != nil {
			m.log.WithContext(ctx).Warn("failed to clear cart after checkout",
				zap.Error(err),
				zap.String("customer_id", order.CustomerID),
			)
		}
	}

	if m.metrics != nil {
		m.metrics.Created.Inc()
	}
	m.publish(ctx, events.RoutingKeyOrderCreated, order, "")

	m.log.WithContext(ctx).Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", order.CustomerID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("currency", string(order.Currency)),
	)

	return &OrderOutput{Order: order}, nil
}

// GetOrderInput represents the input for getting an order
type GetOrderInput struct {
	ID string
}

// GetOrder retrieves an order by ID
func (m *OrderManager) GetOrder(ctx context.Context, input GetOrderInput) (*OrderOutput, error) {
	if input.ID == "" {
		return nil, domain.ErrOrderIDRequired
	}
	order, err := m.orders.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Order: order}, nil
}

// GetOrderByNumber retrieves an order by its order number
func (m *OrderManager) GetOrderByNumber(ctx context.Context, number string) (*OrderOutput, error) {
	if number == "" {
		return nil, errors.NewValidation("order number is required", nil)
	}
	order, err := m.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Order: order}, nil
}

// ListCustomerOrdersInput pages through a customer's orders
type ListCustomerOrdersInput struct {
	CustomerID string
	Limit      int
	Offset     int
}

// ListCustomerOrders returns a customer's orders, newest first
func (m *OrderManager) ListCustomerOrders(ctx context.Context, input ListCustomerOrdersInput) ([]*domain.Order, error) {
	if input.CustomerID == "" {
		return nil, domain.ErrCustomerIDRequired
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	return m.orders.ListByCustomer(ctx, input.CustomerID, limit, offset)
}

// UpdateStatusInput represents a caller-requested status change
type UpdateStatusInput struct {
	OrderID string
	Status  domain.OrderStatus
	ActorID string
	Note    string
}

// UpdateStatus applies a transition from the status table. Entering cancelled
// or refunded returns every line's quantity to stock; entering refunded also
// refunds a completed payment in full.
func (m *OrderManager) UpdateStatus(ctx context.Context, input UpdateStatusInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.UpdateStatus", trace.WithAttributes(
		attribute.String("order_id", input.OrderID),
		attribute.String("requested_status", string(input.Status)),
	))
	defer func() { m.finish(span, "update_status", err) }()

	order, res, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		restock, err := order.ApplyTransition(input.Status, input.ActorID, input.Note, now)
		if err != nil {
			return mutation{}, err
		}
		eventType := events.RoutingKeyOrderStatusChanged
		switch order.Status {
		case domain.OrderStatusCancelled:
			eventType = events.RoutingKeyOrderCancelled
		case domain.OrderStatusRefunded:
			eventType = events.RoutingKeyOrderRefunded
		}
		return mutation{restock: restock, eventType: eventType}, nil
	})
	if err != nil {
		return nil, err
	}

	m.afterMutation(ctx, order, res)
	m.log.WithContext(ctx).Info("order status updated",
		zap.String("order_id", order.ID),
		zap.String("from", string(res.previous)),
		zap.String("to", string(order.Status)),
		zap.String("actor_id", input.ActorID),
	)
	return &OrderOutput{Order: order}, nil
}

// ProcessPaymentInput records a payment captured elsewhere
type ProcessPaymentInput struct {
	OrderID       string
	TransactionID string
}

// ProcessPayment marks the payment completed and confirms a pending order.
// A second call fails with ALREADY_PAID and leaves the payment untouched.
func (m *OrderManager) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.ProcessPayment",
		trace.WithAttributes(attribute.String("order_id", input.OrderID)))
	defer func() { m.finish(span, "process_payment", err) }()

	if input.TransactionID == "" {
		return nil, errors.NewValidation("transaction_id is required", nil)
	}

	order, res, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		if err := order.MarkPaid(input.TransactionID, now); err != nil {
			return mutation{}, err
		}
		return mutation{eventType: events.RoutingKeyOrderPaid}, nil
	})
	if err != nil {
		return nil, err
	}

	m.afterMutation(ctx, order, res)
	m.log.WithContext(ctx).Info("order payment recorded",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", input.TransactionID),
		zap.String("status", string(order.Status)),
	)
	return &OrderOutput{Order: order}, nil
}

// CapturePaymentInput asks the payment authority to capture the order total
type CapturePaymentInput struct {
	OrderID string
	Token   string
}

// CapturePayment claims the order's payment, calls the payment authority and
// records the outcome. Concurrent captures of one order fail with
// PAYMENT_IN_PROGRESS before reaching the authority. When the call fails or is
// abandoned the claim is released and the payment returns to its prior status.
func (m *OrderManager) CapturePayment(ctx context.Context, input CapturePaymentInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.CapturePayment",
		trace.WithAttributes(attribute.String("order_id", input.OrderID)))
	defer func() { m.finish(span, "capture_payment", err) }()

	if m.payments == nil {
		return nil, errors.NewInternal("payment authority is not configured", nil)
	}

	var previous domain.PaymentStatus
	order, _, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		var err error
		previous, err = order.BeginCapture(now)
		return mutation{}, err
	})
	if err != nil {
		return nil, err
	}

	result, err := m.payments.Capture(ctx, order.ID, ports.PaymentDetails{
		Method:   order.Payment.Method,
		Amount:   order.Total,
		Currency: order.Currency,
		Token:    input.Token,
	})
	if err != nil {
		m.releaseCapture(ctx, order.ID, previous)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.NewInternal("payment capture abandoned", ctxErr)
		}
		return nil, errors.Wrap(err, "payment capture failed")
	}

	// the authority has answered; its verdict is recorded even if ctx ends now
	recordCtx := context.WithoutCancel(ctx)

	if !result.Success {
		_, _, mErr := m.mutate(recordCtx, order.ID, func(order *domain.Order, now time.Time) (mutation, error) {
			return mutation{}, order.MarkPaymentFailed(now)
		})
		if mErr != nil {
			m.releaseCapture(ctx, order.ID, previous)
			return nil, mErr
		}
		m.log.WithContext(ctx).Info("payment declined",
			zap.String("order_id", order.ID),
			zap.String("reason", result.Reason),
		)
		return nil, domain.NewPaymentDeclined(order.ID, result.Reason)
	}

	paid, res, err := m.mutate(recordCtx, order.ID, func(order *domain.Order, now time.Time) (mutation, error) {
		if err := order.CompleteCapture(result.TransactionID, now); err != nil {
			return mutation{}, err
		}
		return mutation{eventType: events.RoutingKeyOrderPaid}, nil
	})
	if err != nil {
		m.log.WithContext(ctx).Error("captured payment could not be recorded",
			zap.Error(err),
			zap.String("order_id", order.ID),
			zap.String("transaction_id", result.TransactionID),
		)
		return nil, err
	}

	m.afterMutation(ctx, paid, res)
	m.log.WithContext(ctx).Info("order payment captured",
		zap.String("order_id", paid.ID),
		zap.String("transaction_id", result.TransactionID),
		zap.String("status", string(paid.Status)),
	)
	return &OrderOutput{Order: paid}, nil
}

// releaseCapture drops a capture claim. It runs detached from ctx so an
// abandoned request still returns the payment to its prior status.
func (m *OrderManager) releaseCapture(ctx context.Context, orderID string, previous domain.PaymentStatus) {
	ctx = context.WithoutCancel(ctx)
	_, _, err := m.mutate(ctx, orderID, func(order *domain.Order, now time.Time) (mutation, error) {
		order.ReleaseCapture(previous, now)
		return mutation{}, nil
	})
	if err != nil {
		m.log.WithContext(ctx).Error("failed to release payment capture claim",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
	}
}

// ProcessRefundInput represents a refund request
type ProcessRefundInput struct {
	OrderID string
	Amount  decimal.Decimal
	ActorID string
	Note    string
}

// ProcessRefund refunds a completed payment, moves the order to refunded and
// returns its stock
func (m *OrderManager) ProcessRefund(ctx context.Context, input ProcessRefundInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.ProcessRefund",
		trace.WithAttributes(attribute.String("order_id", input.OrderID)))
	defer func() { m.finish(span, "process_refund", err) }()

	order, res, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		restock, err := order.Refund(input.Amount, input.ActorID, input.Note, now)
		if err != nil {
			return mutation{}, err
		}
		return mutation{restock: restock, eventType: events.RoutingKeyOrderRefunded}, nil
	})
	if err != nil {
		return nil, err
	}

	m.afterMutation(ctx, order, res)
	m.log.WithContext(ctx).Info("order refunded",
		zap.String("order_id", order.ID),
		zap.String("amount", order.Payment.RefundAmount.StringFixed(2)),
		zap.String("actor_id", input.ActorID),
		zap.Bool("restocked", res.restock),
	)
	return &OrderOutput{Order: order}, nil
}

// CancelOrderInput represents a cancellation request
type CancelOrderInput struct {
	OrderID   string
	ActorID   string
	ActorRole domain.ActorRole
	Reason    string
}

// CancelOrder cancels a pending or confirmed order on behalf of its owner or an
// administrator, restores its stock and refunds a completed payment in full
func (m *OrderManager) CancelOrder(ctx context.Context, input CancelOrderInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.CancelOrder", trace.WithAttributes(
		attribute.String("order_id", input.OrderID),
		attribute.String("actor_role", string(input.ActorRole)),
	))
	defer func() { m.finish(span, "cancel_order", err) }()

	var refunded bool
	order, res, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		if !order.CancellableBy(input.ActorID, input.ActorRole) {
			return mutation{}, domain.NewForbiddenCancel(order.ID)
		}
		var err error
		refunded, err = order.Cancel(input.ActorID, input.Reason, now)
		if err != nil {
			return mutation{}, err
		}
		return mutation{restock: true, eventType: events.RoutingKeyOrderCancelled}, nil
	})
	if err != nil {
		return nil, err
	}

	m.afterMutation(ctx, order, res)
	if refunded {
		m.publish(ctx, events.RoutingKeyOrderRefunded, order, res.previous)
	}
	m.log.WithContext(ctx).Info("order cancelled",
		zap.String("order_id", order.ID),
		zap.String("actor_id", input.ActorID),
		zap.String("reason", input.Reason),
		zap.Bool("refunded", refunded),
	)
	return &OrderOutput{Order: order}, nil
}

// AddTrackingInput records a shipment
type AddTrackingInput struct {
	OrderID        string
	TrackingNumber string
	ShippedAt      time.Time
	ActorID        string
}

// AddTracking stores the tracking number and moves the order to shipped when it
// is earlier in the pipeline
func (m *OrderManager) AddTracking(ctx context.Context, input AddTrackingInput) (out *OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderManager.AddTracking",
		trace.WithAttributes(attribute.String("order_id", input.OrderID)))
	defer func() { m.finish(span, "add_tracking", err) }()

	order, res, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		shipped, err := order.AddTracking(input.TrackingNumber, input.ShippedAt, input.ActorID, now)
		if err != nil {
			return mutation{}, err
		}
		if !shipped {
			return mutation{eventType: events.RoutingKeyOrderStatusChanged}, nil
		}
		return mutation{eventType: events.RoutingKeyOrderShipped}, nil
	})
	if err != nil {
		return nil, err
	}

	m.afterMutation(ctx, order, res)
	m.log.WithContext(ctx).Info("tracking added",
		zap.String("order_id", order.ID),
		zap.String("tracking_number", input.TrackingNumber),
		zap.String("status", string(order.Status)),
	)
	return &OrderOutput{Order: order}, nil
}

// AddNoteInput appends an admin note
type AddNoteInput struct {
	OrderID string
	Note    string
	ActorID string
}

// AddAdminNote appends to the order's admin notes without changing its status
func (m *OrderManager) AddAdminNote(ctx context.Context, input AddNoteInput) (*OrderOutput, error) {
	order, _, err := m.mutate(ctx, input.OrderID, func(order *domain.Order, now time.Time) (mutation, error) {
		return mutation{}, order.AddAdminNote(input.Note, now)
	})
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Order: order}, nil
}

type mutation struct {
	restock   bool
	eventType string
	previous  domain.OrderStatus
}

// mutate loads the order, applies fn and stores it with a version check inside
// one unit of work. Stock is restored only after the versioned write succeeded,
// so two racing callers can never both restore it. A ledger outside the
// transaction is restocked after the commit. Version conflicts are retried
// against a fresh copy.
func (m *OrderManager) mutate(
	ctx context.Context,
	orderID string,
	fn func(order *domain.Order, now time.Time) (mutation, error),
) (*domain.Order, mutation, error) {
	if orderID == "" {
		return nil, mutation{}, domain.ErrOrderIDRequired
	}

	for attempt := 1; ; attempt++ {
		var (
			result *domain.Order
			res    mutation
		)
		err := m.uow.RunInTx(ctx, func(ctx context.Context) error {
			order, err := m.orders.GetByID(ctx, orderID)
			if err != nil {
				return err
			}
			previous := order.Status

			res, err = fn(order, m.clock())
			if err != nil {
				return err
			}
			res.previous = previous

			if err := m.orders.Update(ctx, order); err != nil {
				return err
			}
			if res.restock && m.stockInTx {
				if err := m.restoreStock(ctx, order.Items); err != nil {
					return err
				}
			}
			result = order
			return nil
		})
		if err == nil {
			if res.restock && !m.stockInTx {
				if err := m.restoreStock(ctx, result.Items); err != nil {
					m.log.WithContext(ctx).Error("order committed but stock was not restored",
						zap.Error(err),
						zap.String("order_id", result.ID),
						zap.String("status", string(result.Status)),
					)
				}
			}
			return result, res, nil
		}
		if errors.Is(err, errors.CodeConflict) && attempt < maxConflictRetries {
			m.log.WithContext(ctx).Debug("order version conflict, retrying",
				zap.String("order_id", orderID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return nil, mutation{}, err
	}
}

func (m *OrderManager) afterMutation(ctx context.Context, order *domain.Order, res mutation) {
	if m.metrics != nil && res.previous != order.Status {
		m.metrics.Transitions.WithLabelValues(string(res.previous), string(order.Status)).Inc()
	}
	if res.eventType != "" {
		m.publish(ctx, res.eventType, order, res.previous)
	}
}

// publish is best-effort: failures are logged and never returned
func (m *OrderManager) publish(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishOrderEvent(ctx, eventType, order, previous); err != nil {
		m.log.WithContext(ctx).Error("failed to publish order event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID),
		)
	}
}

func (m *OrderManager) finish(span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if m.metrics != nil {
			reason := errors.CodeInternal
			if appErr := errors.As(err); appErr != nil {
				reason = appErr.Code
			}
			m.metrics.Failed.WithLabelValues(operation, reason).Inc()
		}
	}
	span.End()
}

func (m *OrderManager) countReservationFailure() {
	if m.metrics != nil {
		m.metrics.ReservationsFailed.Inc()
	}
}
