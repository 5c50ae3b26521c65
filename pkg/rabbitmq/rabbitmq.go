package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"go-orders/pkg/logger"
)

const (
	headerTraceID    = "x-trace-id"
	headerRetryCount = "x-retry-count"

	// DefaultMaxRetries is how many times a failed delivery is republished before dead-lettering
	DefaultMaxRetries = 3
)

// Connection manages a RabbitMQ connection and its shared channel
type Connection struct {
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
	mu      sync.RWMutex
	pubMu   sync.Mutex
}

// NewConnection dials RabbitMQ and opens a channel
func NewConnection(url string, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		url: url,
		log: log,
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Connection) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	c.conn = conn
	c.channel = ch

	c.log.Info("connected to RabbitMQ")
	return nil
}

// Channel returns the current channel, reopening the connection if it was closed
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.RLock()
	ch, conn := c.channel, c.conn
	c.mu.RUnlock()

	if ch != nil && !ch.IsClosed() && conn != nil && !conn.IsClosed() {
		return ch, nil
	}

	c.log.Warn("RabbitMQ channel closed, reconnecting")
	if err := c.connect(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel, nil
}

// Close closes the channel and the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func declareTopicExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// Publisher publishes JSON messages to a topic exchange
type Publisher struct {
	conn     *Connection
	exchange string
	log      *logger.Logger
}

// NewPublisher declares the exchange and returns a publisher bound to it
func NewPublisher(conn *Connection, exchange string, log *logger.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := declareTopicExchange(ch, exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		exchange: exchange,
		log:      log,
	}, nil
}

// Publish marshals message as JSON and publishes it with the trace ID from ctx
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return p.publishRaw(ctx, routingKey, body, amqp.Table{})
}

func (p *Publisher) publishRaw(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}

	traceID := logger.GetTraceID(ctx)
	headers[headerTraceID] = traceID

	p.conn.pubMu.Lock()
	err = ch.PublishWithContext(
		ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
			CorrelationId: traceID,
			Headers:       headers,
		},
	)
	p.conn.pubMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.WithContext(ctx).Debug("message published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
	)

	return nil
}

// Consumer consumes messages from a queue bound to a topic exchange
type Consumer struct {
	conn        *Connection
	queue       string
	exchange    string
	routingKeys []string
	maxRetries  int
	log         *logger.Logger
}

// NewConsumer declares the queue with its dead-letter exchange and binds it
func NewConsumer(conn *Connection, queue, exchange string, routingKeys []string, log *logger.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := declareTopicExchange(ch, exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	dlx := exchange + ".dlx"
	if err := declareTopicExchange(ch, dlx); err != nil {
		return nil, fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange": dlx,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return &Consumer{
		conn:        conn,
		queue:       queue,
		exchange:    exchange,
		routingKeys: routingKeys,
		maxRetries:  DefaultMaxRetries,
		log:         log,
	}, nil
}

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, body []byte) error

// Consume starts a goroutine delivering messages to handler until ctx is done.
// Failed deliveries are republished with an incremented retry header and
// dead-lettered once the retry budget is spent.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	retry := &Publisher{conn: c.conn, exchange: c.exchange, log: c.log}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.handle(ctx, retry, msg, handler)
			}
		}
	}()

	c.log.Info("consumer started",
		zap.String("queue", c.queue),
		zap.Strings("routing_keys", c.routingKeys),
	)

	return nil
}

func (c *Consumer) handle(ctx context.Context, retry *Publisher, msg amqp.Delivery, handler MessageHandler) {
	traceID, _ := msg.Headers[headerTraceID].(string)
	msgCtx := logger.WithTraceIDContext(ctx, traceID)
	log := c.log.WithContext(msgCtx)

	log.Debug("message received",
		zap.String("queue", c.queue),
		zap.String("routing_key", msg.RoutingKey),
	)

	err := handler(msgCtx, msg.Body)
	if err == nil {
		msg.Ack(false)
		return
	}

	attempts := retryCount(msg.Headers)
	log.Error("failed to handle message",
		zap.Error(err),
		zap.String("queue", c.queue),
		zap.Int("attempt", attempts+1),
	)

	if attempts+1 >= c.maxRetries {
		msg.Nack(false, false)
		return
	}

	headers := amqp.Table{headerRetryCount: int32(attempts + 1)}
	if pubErr := retry.publishRaw(msgCtx, msg.RoutingKey, msg.Body, headers); pubErr != nil {
		log.Error("failed to republish message", zap.Error(pubErr))
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}

func retryCount(headers amqp.Table) int {
	switch v := headers[headerRetryCount].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
