package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-orders/internal/orders/domain"
	"go-orders/pkg/db"
	apperrors "go-orders/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID             string          `gorm:"primaryKey;size:26"`
	OrderNumber    string          `gorm:"size:32;uniqueIndex;not null"`
	CustomerID     string          `gorm:"size:64;index;not null"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxRate        decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	Tax            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Discount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency       string          `gorm:"size:3;not null"`
	Status         string          `gorm:"size:20;index;not null;default:'pending'"`
	PaymentMethod  string          `gorm:"size:32;not null"`
	PaymentStatus  string          `gorm:"size:20;not null;default:'pending'"`
	TransactionID  string          `gorm:"size:128"`
	PaidAt         *time.Time
	RefundedAt     *time.Time
	RefundAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Street         string          `gorm:"size:255"`
	City           string          `gorm:"size:100"`
	State          string          `gorm:"size:100"`
	Zip            string          `gorm:"size:20"`
	Country        string          `gorm:"size:100"`
	ShippingMethod string          `gorm:"size:50"`
	TrackingNumber string          `gorm:"size:128"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CustomerNote   string
	AdminNote      string
	InternalNote   string
	Version        int                `gorm:"not null;default:1"`
	Items          []OrderLineModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History        []StatusEntryModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the GORM model for order lines
type OrderLineModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:26;index;not null"`
	Position  int             `gorm:"not null"`
	ProductID string          `gorm:"size:64;not null"`
	Name      string          `gorm:"size:255;not null"`
	Image     string          `gorm:"size:512"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_items"
}

// StatusEntryModel is the GORM model for the status history
type StatusEntryModel struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   string    `gorm:"size:26;index;not null"`
	Seq       int       `gorm:"not null"`
	Status    string    `gorm:"size:20;not null"`
	ActorID   string    `gorm:"size:64"`
	Note      string    `gorm:"size:1024"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusEntryModel) TableName() string {
	return "order_status_history"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderLineModel{}, &StatusEntryModel{})
}

// Create inserts the order with its lines and history
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toModel(order)

	result := db.Conn(ctx, r.db).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("order number already exists")
		}
		return apperrors.NewInternal("failed to create order", result.Error)
	}

	return nil
}

// GetByID retrieves an order by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel

	result := r.preload(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomain(&model), nil
}

// GetByNumber retrieves an order by its order number
func (r *PostgresOrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var model OrderModel

	result := r.preload(ctx).Where("order_number = ?", number).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNumberNotFound(number)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomain(&model), nil
}

// Update writes the mutable columns guarded by the version the order was read
// at, then appends history entries that are not stored yet. Lines never change.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	model := toModel(order)
	conn := db.Conn(ctx, r.db)

	result := conn.Model(&OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"payment_status":  model.PaymentStatus,
			"transaction_id":  model.TransactionID,
			"paid_at":         model.PaidAt,
			"refunded_at":     model.RefundedAt,
			"refund_amount":   model.RefundAmount,
			"tracking_number": model.TrackingNumber,
			"shipped_at":      model.ShippedAt,
			"delivered_at":    model.DeliveredAt,
			"customer_note":   model.CustomerNote,
			"admin_note":      model.AdminNote,
			"internal_note":   model.InternalNote,
			"subtotal":        model.Subtotal,
			"tax":             model.Tax,
			"shipping_cost":   model.ShippingCost,
			"discount":        model.Discount,
			"total":           model.Total,
			"version":         order.Version + 1,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := conn.Model(&OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return apperrors.NewInternal("failed to update order", err)
		}
		if count == 0 {
			return domain.NewOrderNotFound(order.ID)
		}
		return apperrors.NewConflict("order was modified concurrently")
	}

	var stored int64
	if err := conn.Model(&StatusEntryModel{}).Where("order_id = ?", order.ID).Count(&stored).Error; err != nil {
		return apperrors.NewInternal("failed to update order history", err)
	}
	if int(stored) < len(model.History) {
		pending := model.History[stored:]
		if err := conn.Create(&pending).Error; err != nil {
			return apperrors.NewInternal("failed to update order history", err)
		}
	}

	order.Version++
	return nil
}

// ListByCustomer returns a customer's orders, newest first
func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.preload(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list customer orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = toDomain(&models[i])
	}

	return orders, nil
}

func (r *PostgresOrderRepository) preload(ctx context.Context) *gorm.DB {
	return db.Conn(ctx, r.db).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("History", func(tx *gorm.DB) *gorm.DB { return tx.Order("seq") })
}

// toModel converts a domain entity to a GORM model
func toModel(order *domain.Order) *OrderModel {
	model := &OrderModel{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		Subtotal:       order.Subtotal,
		TaxRate:        order.TaxRate,
		Tax:            order.Tax,
		ShippingCost:   order.ShippingCost,
		Discount:       order.Discount,
		Total:          order.Total,
		Currency:       string(order.Currency),
		Status:         string(order.Status),
		PaymentMethod:  string(order.Payment.Method),
		PaymentStatus:  string(order.Payment.Status),
		TransactionID:  order.Payment.TransactionID,
		PaidAt:         order.Payment.PaidAt,
		RefundedAt:     order.Payment.RefundedAt,
		RefundAmount:   order.Payment.RefundAmount,
		Street:         order.Shipping.Address.Street,
		City:           order.Shipping.Address.City,
		State:          order.Shipping.Address.State,
		Zip:            order.Shipping.Address.Zip,
		Country:        order.Shipping.Address.Country,
		ShippingMethod: order.Shipping.Method,
		TrackingNumber: order.Shipping.TrackingNumber,
		ShippedAt:      order.Shipping.ShippedAt,
		DeliveredAt:    order.Shipping.DeliveredAt,
		CustomerNote:   order.Notes.Customer,
		AdminNote:      order.Notes.Admin,
		InternalNote:   order.Notes.Internal,
		Version:        order.Version,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}

	model.Items = make([]OrderLineModel, len(order.Items))
	for i, line := range order.Items {
		model.Items[i] = OrderLineModel{
			OrderID:   order.ID,
			Position:  i,
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		}
	}

	model.History = make([]StatusEntryModel, len(order.StatusHistory))
	for i, entry := range order.StatusHistory {
		model.History[i] = StatusEntryModel{
			OrderID:   order.ID,
			Seq:       i,
			Status:    string(entry.Status),
			ActorID:   entry.ActorID,
			Note:      entry.Note,
			Timestamp: entry.Timestamp,
		}
	}

	return model
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *OrderModel) *domain.Order {
	order := &domain.Order{
		ID:           model.ID,
		OrderNumber:  model.OrderNumber,
		CustomerID:   model.CustomerID,
		Subtotal:     model.Subtotal,
		TaxRate:      model.TaxRate,
		Tax:          model.Tax,
		ShippingCost: model.ShippingCost,
		Discount:     model.Discount,
		Total:        model.Total,
		Currency:     domain.Currency(model.Currency),
		Status:       domain.OrderStatus(model.Status),
		Payment: domain.Payment{
			Method:        domain.PaymentMethod(model.PaymentMethod),
			Status:        domain.PaymentStatus(model.PaymentStatus),
			TransactionID: model.TransactionID,
			PaidAt:        utcPtr(model.PaidAt),
			RefundedAt:    utcPtr(model.RefundedAt),
			RefundAmount:  model.RefundAmount,
		},
		Shipping: domain.Shipping{
			Address: domain.Address{
				Street:  model.Street,
				City:    model.City,
				State:   model.State,
				Zip:     model.Zip,
				Country: model.Country,
			},
			Method:         model.ShippingMethod,
			TrackingNumber: model.TrackingNumber,
			ShippedAt:      utcPtr(model.ShippedAt),
			DeliveredAt:    utcPtr(model.DeliveredAt),
		},
		Notes: domain.Notes{
			Customer: model.CustomerNote,
			Admin:    model.AdminNote,
			Internal: model.InternalNote,
		},
		Version:   model.Version,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}

	order.Items = make([]domain.OrderLine, len(model.Items))
	for i, line := range model.Items {
		order.Items[i] = domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		}
	}

	order.StatusHistory = make([]domain.StatusEntry, len(model.History))
	for i, entry := range model.History {
		order.StatusHistory[i] = domain.StatusEntry{
			Status:    domain.OrderStatus(entry.Status),
			Timestamp: entry.Timestamp.UTC(),
			ActorID:   entry.ActorID,
			Note:      entry.Note,
		}
	}

	return order
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// GormUnitOfWork runs a unit of work inside a single database transaction
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new transactional unit of work
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise
func (u *GormUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.Transaction(ctx, u.db, fn)
}
