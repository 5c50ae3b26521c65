package adapters

import (
	"context"
	"sort"
	"sync"

	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	apperrors "go-orders/pkg/errors"
)

// MemoryOrderRepository is an in-process OrderRepository. Stored orders are
// cloned on the way in and out so callers never share state with the store.
type MemoryOrderRepository struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	byNumber map[string]string
}

// NewMemoryOrderRepository creates an empty repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:   make(map[string]*domain.Order),
		byNumber: make(map[string]string),
	}
}

// Create stores a new order
func (r *MemoryOrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[order.OrderNumber]; ok {
		return apperrors.NewConflict("order number already exists")
	}
	if _, ok := r.orders[order.ID]; ok {
		return apperrors.NewConflict("order id already exists")
	}
	r.orders[order.ID] = order.Clone()
	r.byNumber[order.OrderNumber] = order.ID
	return nil
}

// GetByID retrieves an order by ID
func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order.Clone(), nil
}

// GetByNumber retrieves an order by its order number
func (r *MemoryOrderRepository) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[number]
	if !ok {
		return nil, domain.NewOrderNumberNotFound(number)
	}
	return r.orders[id].Clone(), nil
}

// Update replaces the order when the stored version matches
func (r *MemoryOrderRepository) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok {
		return domain.NewOrderNotFound(order.ID)
	}
	if current.Version != order.Version {
		return apperrors.NewConflict("order was modified concurrently")
	}
	order.Version++
	r.orders[order.ID] = order.Clone()
	return nil
}

// ListByCustomer returns a customer's orders, newest first
func (r *MemoryOrderRepository) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	if offset >= len(orders) {
		return []*domain.Order{}, nil
	}
	orders = orders[offset:]
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return orders, nil
}

// MemoryInventoryLedger is an in-process InventoryLedger guarded by one mutex
type MemoryInventoryLedger struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

// NewMemoryInventoryLedger creates a ledger holding a copy of products
func NewMemoryInventoryLedger(products ...domain.Product) *MemoryInventoryLedger {
	l := &MemoryInventoryLedger{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		l.products[p.ID] = p
	}
	return l
}

// SaveProduct inserts or replaces a catalog product
func (l *MemoryInventoryLedger) SaveProduct(_ context.Context, product *domain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products[product.ID] = *product
	return nil
}

// RemoveProduct deletes a product from the catalog
func (l *MemoryInventoryLedger) RemoveProduct(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.products, id)
}

// GetProduct retrieves a product by ID
func (l *MemoryInventoryLedger) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	return &p, nil
}

// AdjustStock adds delta to the product's stock unless the result would be negative
func (l *MemoryInventoryLedger) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return 0, domain.NewProductNotFound(id)
	}
	if p.Stock+delta < 0 {
		return p.Stock, apperrors.NewInsufficientStock(id, -delta, p.Stock)
	}
	p.Stock += delta
	l.products[id] = p
	return p.Stock, nil
}

// Stock returns the current stock of a product, or -1 when it does not exist
func (l *MemoryInventoryLedger) Stock(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}

// MemoryCustomerStore is an in-process CustomerStore
type MemoryCustomerStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

// NewMemoryCustomerStore creates a store that knows the given customer IDs
func NewMemoryCustomerStore(ids ...string) *MemoryCustomerStore {
	s := &MemoryCustomerStore{customers: make(map[string]domain.Customer, len(ids))}
	for _, id := range ids {
		s.customers[id] = domain.Customer{ID: id}
	}
	return s
}

// CustomerExists reports whether the customer is known
func (s *MemoryCustomerStore) CustomerExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.customers[id]
	return ok, nil
}

// UpsertCustomer inserts or replaces the customer
func (s *MemoryCustomerStore) UpsertCustomer(_ context.Context, customer *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.ID] = *customer
	return nil
}

// MemoryCartStore is an in-process CartStore
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string][]ports.CartLine
}

// NewMemoryCartStore creates an empty cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]ports.CartLine)}
}

// SetItem stores quantity for productID, removing the line when quantity is not positive
func (s *MemoryCartStore) SetItem(_ context.Context, customerID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[customerID]
	for i, line := range lines {
		if line.ProductID == productID {
			if quantity <= 0 {
				s.carts[customerID] = append(lines[:i:i], lines[i+1:]...)
			} else {
				lines[i].Quantity = quantity
			}
			return nil
		}
	}
	if quantity > 0 {
		s.carts[customerID] = append(lines, ports.CartLine{ProductID: productID, Quantity: quantity})
	}
	return nil
}

// GetCart returns a copy of the cart lines
func (s *MemoryCartStore) GetCart(_ context.Context, customerID string) ([]ports.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.CartLine(nil), s.carts[customerID]...), nil
}

// ClearCart removes every line from the cart
func (s *MemoryCartStore) ClearCart(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}

// MemoryUnitOfWork runs fn directly. Memory writes apply immediately, so
// callers compensate explicitly on failure.
type MemoryUnitOfWork struct{}

// RunInTx runs fn with ctx unchanged
func (MemoryUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
