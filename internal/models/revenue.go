package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MostSoldLimit caps the most-sold items report.
const MostSoldLimit = 20

// RevenueRecord is the revenue booked for one finalized order.
type RevenueRecord struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	Amount        decimal.Decimal `json:"amount"`
	RecordDate    string          `json:"record_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

type RevenueSummary struct {
	StartDate    *string         `json:"start_date"`
	EndDate      *string         `json:"end_date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type MostSoldItem struct {
	MenuItemID    uuid.UUID `json:"menu_item_id"`
	Name          string    `json:"name"`
	TotalQuantity int64     `json:"total_quantity_sold"`
}

// DateRange is an optional inclusive [Start, End] filter in YYYY-MM-DD form.
type DateRange struct {
	Start *string
	End   *string
}

// ParseDateRange validates raw query values; empty strings mean "unbounded".
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var startT, endT time.Time
	if start != "" {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return r, ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"}
		}
		startT = t
		r.Start = &start
	}
	if end != "" {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return r, ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"}
		}
		endT = t
		r.End = &end
	}
	if r.Start != nil && r.End != nil && startT.After(endT) {
		return DateRange{}, ValidationError{Field: "start_date", Message: "must not be after end_date"}
	}
	return r, nil
}
