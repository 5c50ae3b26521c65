package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	"go-orders/pkg/errors"
	"go-orders/pkg/logger"
)

const maxConcurrentLookups = 8

// Item validation reasons
const (
	ReasonInvalidQuantity   = "quantity must be at least 1"
	ReasonProductNotFound   = "product no longer exists"
	ReasonProductInactive   = "product is no longer available"
	ReasonInsufficientStock = "insufficient stock"
)

// ItemValidation is the verdict for one cart line
type ItemValidation struct {
	ProductID string
	Name      string
	Quantity  int
	Available int
	UnitPrice decimal.Decimal
	Valid     bool
	Reason    string
}

// ValidationReport is the read-only checkout readiness of a cart
type ValidationReport struct {
	CustomerID string
	IsValid    bool
	Items      []ItemValidation
	Subtotal   decimal.Decimal
}

// CartValidator checks a cart against current catalog state without reserving anything
type CartValidator struct {
	carts     ports.CartStore
	inventory ports.InventoryLedger
	log       *logger.Logger
}

// NewCartValidator creates a new cart validator
func NewCartValidator(carts ports.CartStore, inventory ports.InventoryLedger, log *logger.Logger) *CartValidator {
	if log == nil {
		log = logger.NewNop()
	}
	return &CartValidator{carts: carts, inventory: inventory, log: log}
}

// ValidateCartForCheckout reports, per line, whether the customer's cart could
// be checked out now. An empty cart is reported as invalid.
func (v *CartValidator) ValidateCartForCheckout(ctx context.Context, customerID string) (*ValidationReport, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerIDRequired
	}
	if v.carts == nil {
		return nil, errors.NewInternal("cart store is not configured", nil)
	}

	lines, err := v.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	report, err := v.ValidateItems(ctx, lines)
	if err != nil {
		return nil, err
	}
	report.CustomerID = customerID

	v.log.WithContext(ctx).Debug("cart validated",
		zap.String("customer_id", customerID),
		zap.Int("items", len(report.Items)),
		zap.Bool("valid", report.IsValid),
	)
	return report, nil
}

// ValidateItems validates arbitrary cart lines. Lookups run concurrently;
// the report keeps the input order.
func (v *CartValidator) ValidateItems(ctx context.Context, lines []ports.CartLine) (*ValidationReport, error) {
	items := make([]ItemValidation, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			item, err := v.validateLine(gctx, line)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ValidationReport{
		IsValid:  len(items) > 0,
		Items:    items,
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		if !item.Valid {
			report.IsValid = false
			continue
		}
		report.Subtotal = report.Subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	report.Subtotal = domain.RoundMoney(report.Subtotal)
	return report, nil
}

func (v *CartValidator) validateLine(ctx context.Context, line ports.CartLine) (ItemValidation, error) {
	item := ItemValidation{ProductID: line.ProductID, Quantity: line.Quantity}

	if line.Quantity < 1 {
		item.Reason = ReasonInvalidQuantity
		return item, nil
	}

	product, err := v.inventory.GetProduct(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			item.Reason = ReasonProductNotFound
			return item, nil
		}
		return item, errors.Wrap(err, "failed to load product")
	}

	item.Name = product.Name
	item.Available = product.Stock
	item.UnitPrice = product.Price

	switch {
	case !product.IsActive:
		item.Reason = ReasonProductInactive
	case product.Stock < line.Quantity:
		item.Reason = fmt.Sprintf("%s: requested %d, available %d", ReasonInsufficientStock, line.Quantity, product.Stock)
	default:
		item.Valid = true
	}
	return item, nil
}
