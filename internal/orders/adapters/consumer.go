package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"go-orders/internal/orders/domain"
	"go-orders/internal/orders/ports"
	"go-orders/pkg/events"
	"go-orders/pkg/logger"
	"go-orders/pkg/rabbitmq"
)

// CustomerCreatedConsumer feeds the customer read model from user.created events
type CustomerCreatedConsumer struct {
	consumer *rabbitmq.Consumer
	store    ports.CustomerStore
	log      *logger.Logger
}

// NewCustomerCreatedConsumer creates a new consumer for user.created events
func NewCustomerCreatedConsumer(conn *rabbitmq.Connection, store ports.CustomerStore, log *logger.Logger) (*CustomerCreatedConsumer, error) {
	consumer, err := rabbitmq.NewConsumer(
		conn,
		"orders.user-created", // queue name
		events.ExchangeUsers,  // exchange
		[]string{events.RoutingKeyUserCreated},
		log,
	)
	if err != nil {
		return nil, err
	}

	return &CustomerCreatedConsumer{
		consumer: consumer,
		store:    store,
		log:      log,
	}, nil
}

// Start consumes until ctx is cancelled
func (c *CustomerCreatedConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.HandleMessage)
}

// HandleMessage upserts the customer carried by one user.created message
func (c *CustomerCreatedConsumer) HandleMessage(ctx context.Context, body []byte) error {
	var event events.UserCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.WithContext(ctx).Error("failed to unmarshal UserCreatedEvent",
			zap.Error(err),
		)
		return err
	}
	if event.Payload.ID == "" {
		return fmt.Errorf("user.created event without user id")
	}

	customer := &domain.Customer{
		ID:        event.Payload.ID,
		Name:      event.Payload.Name,
		Email:     event.Payload.Email,
		CreatedAt: event.Payload.CreatedAt,
	}
	if err := c.store.UpsertCustomer(ctx, customer); err != nil {
		return err
	}

	c.log.WithContext(ctx).Info("customer registered",
		zap.String("customer_id", customer.ID),
		zap.String("trace_id", event.TraceID),
	)
	return nil
}
