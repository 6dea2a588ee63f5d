package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxOrderLines   = 100
	maxLineQuantity = 1000
)

// Order is the bill for a completed reservation. TotalAmount always equals the
// sum of its items' subtotals.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderDate     time.Time       `json:"order_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items"`
}

// OrderItem is a line of an order, priced with the menu price captured when
// the line was written.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	MenuItemID   uuid.UUID       `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name,omitempty"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderLine is one requested (menu item, quantity) pair.
type OrderLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

// OrderRequest is the body of POST /orders and PUT /orders/{id}.
type OrderRequest struct {
	ReservationID uuid.UUID   `json:"reservation_id"`
	Items         []OrderLine `json:"items"`
}

func (req *OrderRequest) Validate() error {
	if req.ReservationID == uuid.Nil {
		return ValidationError{Field: "reservation_id", Message: "is required"}
	}
	if len(req.Items) == 0 {
		return ValidationError{Field: "items", Message: "must contain at least one item"}
	}
	if len(req.Items) > maxOrderLines {
		return ValidationError{Field: "items", Message: fmt.Sprintf("a maximum of %d items is allowed", maxOrderLines)}
	}
	for i, line := range req.Items {
		if line.MenuItemID == uuid.Nil {
			return ValidationError{Field: fmt.Sprintf("items[%d].menu_item_id", i), Message: "is required"}
		}
		if line.Quantity <= 0 {
			return ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be greater than 0"}
		}
		if line.Quantity > maxLineQuantity {
			return ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: fmt.Sprintf("must be at most %d", maxLineQuantity)}
		}
	}
	return nil
}

// MenuItemIDs returns the distinct menu item ids referenced by the request, in first-seen order.
func (req *OrderRequest) MenuItemIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}
	return ids
}
