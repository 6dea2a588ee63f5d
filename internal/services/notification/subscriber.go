package notification

import (
	"context"
	"fmt"
	"io"

	"restaurant-system/internal/logger"
	"restaurant-system/internal/messaging"
	"restaurant-system/internal/models"
)

// EventSource delivers message bodies to a handler until ctx ends.
type EventSource interface {
	Run(ctx context.Context, handler messaging.MessageHandler) error
}

// Subscriber prints a line for every order event and logs it as structured data.
type Subscriber struct {
	source EventSource
	out    io.Writer
	logger *logger.Logger
}

func NewSubscriber(source EventSource, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		out:    out,
		logger: log,
	}
}

// Run consumes until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("service_started", "Notification subscriber started", "", map[string]interface{}{
		"queue": messaging.OrderNotificationsQueue,
	})

	err := s.source.Run(ctx, s.HandleMessage)
	if err != nil && ctx.Err() != nil {
		s.logger.Info("graceful_shutdown", "Notification subscriber stopped", "", nil)
		return nil
	}
	return err
}

// HandleMessage decodes one order event and displays it.
func (s *Subscriber) HandleMessage(ctx context.Context, body []byte) error {
	var event models.OrderEvent
	if err := messaging.DecodeMessage(body, &event); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(s.out, FormatEvent(&event)); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}

	s.logger.Info("notification_displayed", "Order notification displayed", logger.RequestIDFromContext(ctx), map[string]interface{}{
		"event":          event.Event,
		"order_id":       event.OrderID.String(),
		"reservation_id": event.ReservationID.String(),
		"total_amount":   event.TotalAmount.StringFixed(2),
		"item_count":     event.ItemCount,
	})
	return nil
}

// FormatEvent renders an event as a single human-readable line.
func FormatEvent(e *models.OrderEvent) string {
	ts := e.OccurredAt.Format("2006-01-02 15:04:05")
	switch e.Event {
	case models.EventOrderCreated:
		return fmt.Sprintf("[%s] New order %s for reservation %s: %d item(s), total %s",
			ts, e.OrderID, e.ReservationID, e.ItemCount, e.TotalAmount.StringFixed(2))
	case models.EventOrderUpdated:
		return fmt.Sprintf("[%s] Order %s updated: %d item(s), total now %s",
			ts, e.OrderID, e.ItemCount, e.TotalAmount.StringFixed(2))
	case models.EventOrderDeleted:
		return fmt.Sprintf("[%s] Order %s for reservation %s was deleted",
			ts, e.OrderID, e.ReservationID)
	default:
		return fmt.Sprintf("[%s] Order %s: %s", ts, e.OrderID, e.Event)
	}
}
