package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/models"
)

// priceLines snapshots the current menu price onto every requested line and
// returns the items with their subtotals and the order total. A line whose
// menu item has no price is NotFound; amounts the money columns cannot hold
// are BadRequest.
func priceLines(orderID uuid.UUID, lines []models.OrderLine, prices map[uuid.UUID]decimal.Decimal) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		price, ok := prices[line.MenuItemID]
		if !ok {
			return nil, decimal.Zero, apperror.NotFound("menu item %s not found", line.MenuItemID)
		}

		subtotal := models.Cents(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		if subtotal.GreaterThanOrEqual(models.MaxAmount) {
			return nil, decimal.Zero, apperror.BadRequest("subtotal for menu item %s exceeds the maximum order amount", line.MenuItemID)
		}
		items = append(items, models.OrderItem{
			OrderID:      orderID,
			MenuItemID:   line.MenuItemID,
			Quantity:     line.Quantity,
			PriceAtOrder: price,
			Subtotal:     subtotal,
		})
		total = total.Add(subtotal)
	}
	if total.GreaterThanOrEqual(models.MaxAmount) {
		return nil, decimal.Zero, apperror.BadRequest("order total exceeds the maximum order amount")
	}

	return items, total, nil
}
