package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-orders/internal/orders/domain"
	"go-orders/pkg/db"
	apperrors "go-orders/pkg/errors"
)

// ProductModel is the GORM model for the catalog rows the order core reads
type ProductModel struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null"`
	Image     string          `gorm:"size:512"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Stock     int             `gorm:"not null;check:stock >= 0"`
	IsActive  bool            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PostgresInventoryLedger implements InventoryLedger on the products table
type PostgresInventoryLedger struct {
	db *gorm.DB
}

// NewPostgresInventoryLedger creates a new PostgreSQL inventory ledger
func NewPostgresInventoryLedger(db *gorm.DB) *PostgresInventoryLedger {
	return &PostgresInventoryLedger{db: db}
}

// Migrate runs auto-migration for the product model
func (l *PostgresInventoryLedger) Migrate() error {
	return l.db.AutoMigrate(&ProductModel{})
}

// SaveProduct inserts or replaces a catalog product
func (l *PostgresInventoryLedger) SaveProduct(ctx context.Context, product *domain.Product) error {
	model := &ProductModel{
		ID:       product.ID,
		Name:     product.Name,
		Image:    product.Image,
		Price:    product.Price,
		Stock:    product.Stock,
		IsActive: product.IsActive,
	}
	result := db.Conn(ctx, l.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to save product", result.Error)
	}
	return nil
}

// GetProduct retrieves a product by ID
func (l *PostgresInventoryLedger) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel

	result := db.Conn(ctx, l.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return &domain.Product{
		ID:       model.ID,
		Name:     model.Name,
		Image:    model.Image,
		Price:    model.Price,
		Stock:    model.Stock,
		IsActive: model.IsActive,
	}, nil
}

// AdjustStock applies delta in a single conditional UPDATE so that concurrent
// decrements can never drive stock below zero
func (l *PostgresInventoryLedger) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	conn := db.Conn(ctx, l.db)

	query := conn.Model(&ProductModel{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}
	result := query.Updates(map[string]interface{}{
		"stock":      gorm.Expr("stock + ?", delta),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to adjust stock", result.Error)
	}

	var model ProductModel
	if err := conn.Select("id", "stock").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.NewProductNotFound(id)
		}
		return 0, apperrors.NewInternal("failed to read stock", err)
	}

	if result.RowsAffected == 0 {
		return model.Stock, apperrors.NewInsufficientStock(id, -delta, model.Stock)
	}
	return model.Stock, nil
}
