package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-orders/internal/orders/domain"
	"go-orders/pkg/db"
	apperrors "go-orders/pkg/errors"
)

// CustomerModel is the GORM model for the customer read model
type CustomerModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:255;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// PostgresCustomerStore implements CustomerStore using PostgreSQL
type PostgresCustomerStore struct {
	db *gorm.DB
}

// NewPostgresCustomerStore creates a new PostgreSQL customer store
func NewPostgresCustomerStore(db *gorm.DB) *PostgresCustomerStore {
	return &PostgresCustomerStore{db: db}
}

// Migrate runs auto-migration for the customer model
func (s *PostgresCustomerStore) Migrate() error {
	return s.db.AutoMigrate(&CustomerModel{})
}

// CustomerExists reports whether the customer is known
func (s *PostgresCustomerStore) CustomerExists(ctx context.Context, id string) (bool, error) {
	var count int64
	result := db.Conn(ctx, s.db).Model(&CustomerModel{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check customer", result.Error)
	}
	return count > 0, nil
}

// UpsertCustomer inserts the customer or refreshes its name and email
func (s *PostgresCustomerStore) UpsertCustomer(ctx context.Context, customer *domain.Customer) error {
	model := &CustomerModel{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	result := db.Conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to upsert customer", result.Error)
	}
	return nil
}
