package adapters

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"go-orders/internal/orders/ports"
	apperrors "go-orders/pkg/errors"
)

const cartKeyPrefix = "cart:"

// RedisCartStore keeps each cart as a Redis hash of product ID to quantity
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore creates a cart store on client
func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

func cartKey(customerID string) string {
	return cartKeyPrefix + customerID
}

// SetItem stores quantity for productID, removing the line when quantity is not positive
func (s *RedisCartStore) SetItem(ctx context.Context, customerID, productID string, quantity int) error {
	var err error
	if quantity <= 0 {
		err = s.client.HDel(ctx, cartKey(customerID), productID).Err()
	} else {
		err = s.client.HSet(ctx, cartKey(customerID), productID, quantity).Err()
	}
	if err != nil {
		return apperrors.NewInternal("failed to update cart", err)
	}
	return nil
}

// GetCart returns the cart lines ordered by product ID
func (s *RedisCartStore) GetCart(ctx context.Context, customerID string) ([]ports.CartLine, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(customerID)).Result()
	if err != nil {
		return nil, apperrors.NewInternal("failed to load cart", err)
	}

	lines := make([]ports.CartLine, 0, len(fields))
	for productID, raw := range fields {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.NewInternal("corrupt cart entry", err)
		}
		lines = append(lines, ports.CartLine{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// ClearCart removes every line from the cart
func (s *RedisCartStore) ClearCart(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, cartKey(customerID)).Err(); err != nil {
		return apperrors.NewInternal("failed to clear cart", err)
	}
	return nil
}
