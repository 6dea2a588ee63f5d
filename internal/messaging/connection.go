package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-system/internal/config"
	"restaurant-system/internal/logger"
)

// Topology names shared by the publisher and the notification subscriber.
const (
	OrdersExchange          = "orders_topic"
	OrderNotificationsQueue = "order_notifications"
	OrderEventsBindingKey   = "order.*"
)

const maxDialAttempts = 5

// Connection owns one AMQP connection and channel and re-dials on demand.
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := c.connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

// connect dials with a linear backoff and declares the topology. Callers hold mu
// or own the connection exclusively.
func (c *Connection) connect(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= maxDialAttempts; attempt++ {
		if err = c.dial(); err == nil {
			c.logger.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", nil)
			return nil
		}

		if attempt < maxDialAttempts {
			wait := time.Duration(attempt) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", wait),
				"startup", err, map[string]interface{}{"attempt": attempt})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxDialAttempts, err)
}

func (c *Connection) dial() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	c.conn = conn
	c.channel = ch
	return nil
}

func declareTopology(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		OrdersExchange,
		amqp091.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}

	_, err = ch.QueueDeclare(
		OrderNotificationsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", OrderNotificationsQueue, err)
	}

	err = ch.QueueBind(OrderNotificationsQueue, OrderEventsBindingKey, OrdersExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue %s with routing key %s: %w",
			OrderNotificationsQueue, OrderEventsBindingKey, err)
	}
	return nil
}

// Channel returns a live channel, re-dialing if the connection dropped.
func (c *Connection) Channel(ctx context.Context) (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(ctx); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}
