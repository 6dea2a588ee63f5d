package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

const publishTimeout = 10 * time.Second

// EventPublisher announces committed order changes.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error
}

// Publisher publishes order events to the orders topic exchange.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent publishes event persistently, routed by its event name.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	requestID := logger.RequestIDFromContext(ctx)
	publishing := amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		Timestamp:     event.OccurredAt,
		CorrelationId: requestID,
		Body:          body,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.PublishWithContext(ctx, OrdersExchange, event.Event, false, false, publishing)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Event, err)
	}

	p.logger.Debug("order_event_published",
		fmt.Sprintf("Published %s to exchange %s", event.Event, OrdersExchange),
		requestID, map[string]interface{}{
			"order_id":     event.OrderID.String(),
			"routing_key":  event.Event,
			"message_size": len(body),
		})
	return nil
}

// NopPublisher drops events; used when RabbitMQ is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, *models.OrderEvent) error {
	return nil
}
