package adapters

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-orders/internal/orders/domain"
	apperrors "go-orders/pkg/errors"
)

// productDocument is the catalog document shape in the products collection
type productDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	Image    string `bson:"image,omitempty"`
	Price    string `bson:"price"`
	Stock    int    `bson:"stock"`
	IsActive bool   `bson:"is_active"`
}

func (d *productDocument) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, apperrors.NewInternal("invalid product price", err)
	}
	return &domain.Product{
		ID:       d.ID,
		Name:     d.Name,
		Image:    d.Image,
		Price:    price,
		Stock:    d.Stock,
		IsActive: d.IsActive,
	}, nil
}

// MongoInventoryLedger implements InventoryLedger on a MongoDB products collection
type MongoInventoryLedger struct {
	collection *mongo.Collection
}

// NewMongoInventoryLedger creates a ledger backed by db.products
func NewMongoInventoryLedger(db *mongo.Database) *MongoInventoryLedger {
	return &MongoInventoryLedger{collection: db.Collection("products")}
}

// SaveProduct inserts or replaces a catalog product
func (l *MongoInventoryLedger) SaveProduct(ctx context.Context, product *domain.Product) error {
	doc := productDocument{
		ID:       product.ID,
		Name:     product.Name,
		Image:    product.Image,
		Price:    product.Price.StringFixed(2),
		Stock:    product.Stock,
		IsActive: product.IsActive,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := l.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, doc, opts); err != nil {
		return apperrors.NewInternal("failed to save product", err)
	}
	return nil
}

// GetProduct retrieves a product by ID
func (l *MongoInventoryLedger) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDocument
	err := l.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", err)
	}
	return doc.toDomain()
}

// AdjustStock applies delta with a conditional $inc. The filter only matches
// when enough stock remains, which makes the check and the write one step.
func (l *MongoInventoryLedger) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{"$inc": bson.M{"stock": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err := l.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, apperrors.NewInternal("failed to adjust stock", err)
	}

	product, err := l.GetProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, apperrors.NewInsufficientStock(id, -delta, product.Stock)
}
