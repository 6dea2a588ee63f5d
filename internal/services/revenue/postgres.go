package revenue

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/database"
	"restaurant-system/internal/models"
)

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListRevenueRecords(ctx context.Context, r models.DateRange) ([]models.RevenueRecord, error) {
	rows, err := s.db.Query(ctx, database.ListRevenueRecordsSQL, r.Start, r.End)
	if err != nil {
		return nil, database.MapError(err, "list revenue records", "", "")
	}
	records, err := database.CollectAll(rows, func(row pgx.Row) (*models.RevenueRecord, error) {
		var rec models.RevenueRecord
		err := row.Scan(&rec.ID, &rec.OrderID, &rec.ReservationID, &rec.Amount, &rec.RecordDate, &rec.CreatedAt)
		return &rec, err
	})
	return records, database.MapError(err, "scan revenue records", "", "")
}

func (s *PostgresStore) TotalRevenue(ctx context.Context, r models.DateRange) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := s.db.QueryRow(ctx, database.RevenueSummarySQL, r.Start, r.End).Scan(&total); err != nil {
		return decimal.Zero, database.MapError(err, "sum revenue", "", "")
	}
	return total, nil
}

func (s *PostgresStore) MostSoldItems(ctx context.Context, r models.DateRange, limit int) ([]models.MostSoldItem, error) {
	rows, err := s.db.Query(ctx, database.MostSoldItemsSQL, r.Start, r.End, limit)
	if err != nil {
		return nil, database.MapError(err, "most sold items", "", "")
	}
	items, err := database.CollectAll(rows, func(row pgx.Row) (*models.MostSoldItem, error) {
		var item models.MostSoldItem
		err := row.Scan(&item.MenuItemID, &item.Name, &item.TotalQuantity)
		return &item, err
	})
	return items, database.MapError(err, "scan most sold items", "", "")
}
