package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle events, also used as routing keys on the orders exchange.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent is published after an order transaction commits.
type OrderEvent struct {
	Event         string          `json:"event"`
	OrderID       uuid.UUID       `json:"order_id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int             `json:"item_count"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds the event for order. A nil order is not allowed.
func NewOrderEvent(event string, order *Order) *OrderEvent {
	return &OrderEvent{
		Event:         event,
		OrderID:       order.ID,
		ReservationID: order.ReservationID,
		TotalAmount:   order.TotalAmount,
		ItemCount:     len(order.Items),
		OccurredAt:    time.Now().UTC(),
	}
}
