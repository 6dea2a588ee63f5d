package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-system/internal/logger"
)

const handlerTimeout = 30 * time.Second

// MessageHandler processes one delivery body. A returned error requeues the
// message unless it is a PermanentError.
type MessageHandler func(ctx context.Context, body []byte) error

// PermanentError marks a message that can never be processed, such as
// malformed JSON. It is rejected without requeue.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// Run consumes until ctx is cancelled, re-subscribing when the broker closes
// the delivery channel.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		msgs, err := c.subscribe(ctx)
		if err != nil {
			return err
		}

		c.logger.Info("consumer_started",
			fmt.Sprintf("Started consuming from queue %s", c.queueName),
			"", map[string]interface{}{
				"queue":    c.queueName,
				"consumer": c.consumerTag,
				"prefetch": c.prefetch,
			})

		if done := c.drain(ctx, msgs, handler); done {
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return ctx.Err()
		}
		c.logger.Warn("consumer_channel_closed", "Delivery channel closed, resubscribing", "", nil)
	}
}

func (c *Consumer) subscribe(ctx context.Context) (<-chan amqp091.Delivery, error) {
	ch, err := c.conn.Channel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx,
		c.queueName,
		c.consumerTag,
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// drain returns true when ctx ended and false when the delivery channel closed.
func (c *Consumer) drain(ctx context.Context, msgs <-chan amqp091.Delivery, handler MessageHandler) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-msgs:
			if !ok {
				return ctx.Err() != nil
			}
			c.process(ctx, d, handler)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp091.Delivery, handler MessageHandler) {
	start := time.Now()
	requestID := d.CorrelationId

	handlerCtx, cancel := context.WithTimeout(logger.WithRequestID(ctx, requestID), handlerTimeout)
	defer cancel()

	err := handler(handlerCtx, d.Body)
	fields := map[string]interface{}{
		"queue":        c.queueName,
		"routing_key":  d.RoutingKey,
		"delivery_tag": d.DeliveryTag,
		"duration_ms":  time.Since(start).Milliseconds(),
	}

	if err == nil {
		c.logger.Debug("message_processed", "Processed message", requestID, fields)
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", requestID, ackErr, fields)
		}
		return
	}

	var permanent *PermanentError
	requeue := !errors.As(err, &permanent)
	fields["requeue"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", requestID, err, fields)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", requestID, nackErr, fields)
	}
}

// DecodeMessage unmarshals a JSON body, reporting failures as permanent.
func DecodeMessage(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &PermanentError{Err: fmt.Errorf("invalid message body: %w", err)}
	}
	return nil
}
