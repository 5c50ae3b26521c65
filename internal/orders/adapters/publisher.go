package adapters

import (
	"context"

	"go-orders/internal/orders/domain"
	"go-orders/pkg/events"
	"go-orders/pkg/kafka"
	"go-orders/pkg/logger"
	"go-orders/pkg/rabbitmq"
)

// NewOrderEvent builds the versioned event for order
func NewOrderEvent(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) *events.OrderEvent {
	payload := events.OrderPayload{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		Status:         string(order.Status),
		PaymentStatus:  string(order.Payment.Status),
		Total:          order.Total.StringFixed(2),
		Currency:       string(order.Currency),
		TrackingNumber: order.Shipping.TrackingNumber,
		OccurredAt:     order.UpdatedAt,
	}
	if previous != "" && previous != order.Status {
		payload.PreviousStatus = string(previous)
	}
	if order.Payment.Status == domain.PaymentStatusRefunded {
		payload.RefundAmount = order.Payment.RefundAmount.StringFixed(2)
	}

	return events.NewOrderEvent(eventType, payload, logger.GetTraceID(ctx))
}

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishOrderEvent publishes the event with its type as routing key
func (p *RabbitMQPublisher) PublishOrderEvent(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) error {
	return p.publisher.Publish(ctx, eventType, NewOrderEvent(ctx, eventType, order, previous))
}

// KafkaPublisher implements EventPublisher using a Kafka topic keyed by order ID
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a new Kafka event publisher
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// PublishOrderEvent publishes the event keyed by order ID
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) error {
	return p.producer.PublishJSON(ctx, order.ID, eventType, NewOrderEvent(ctx, eventType, order, previous))
}
