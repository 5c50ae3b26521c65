package application

import (
	"context"

	"go.uber.org/zap"

	"go-orders/internal/orders/domain"
	"go-orders/pkg/errors"
)

// reserveStock decrements stock for every line. Either all decrements apply or,
// on the first failure, the ones already applied are returned and the error is
// reported unchanged.
func (m *OrderManager) reserveStock(ctx context.Context, lines []domain.OrderLine) error {
	for i, line := range lines {
		if _, err := m.inventory.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			m.releaseStock(ctx, lines[:i])
			return err
		}
	}
	return nil
}

// releaseStock undoes a partial reservation. Failures are logged only: the
// caller is already returning the error that caused the rollback.
func (m *OrderManager) releaseStock(ctx context.Context, lines []domain.OrderLine) {
	for _, line := range lines {
		if _, err := m.inventory.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			m.log.WithContext(ctx).Error("failed to release reserved stock",
				zap.Error(err),
				zap.String("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
			)
		}
	}
}

// restoreStock returns every line's quantity to the catalog after a
// cancellation or refund. Products removed from the catalog are skipped.
func (m *OrderManager) restoreStock(ctx context.Context, lines []domain.OrderLine) error {
	for _, line := range lines {
		_, err := m.inventory.AdjustStock(ctx, line.ProductID, line.Quantity)
		if err == nil {
			continue
		}
		if errors.Is(err, errors.CodeNotFound) {
			m.log.WithContext(ctx).Warn("product no longer exists, stock not restored",
				zap.String("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
			)
			continue
		}
		return errors.Wrap(err, "failed to restore stock")
	}
	return nil
}
