package revenue

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"restaurant-system/internal/models"
)

// Store runs the read-only reporting queries. Every range bound is inclusive.
type Store interface {
	ListRevenueRecords(ctx context.Context, r models.DateRange) ([]models.RevenueRecord, error)
	TotalRevenue(ctx context.Context, r models.DateRange) (decimal.Decimal, error)
	MostSoldItems(ctx context.Context, r models.DateRange, limit int) ([]models.MostSoldItem, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Records(ctx context.Context, start, end string) ([]models.RevenueRecord, error) {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.store.ListRevenueRecords(ctx, r)
}

// Summary totals revenue over the range; an empty range totals zero.
func (s *Service) Summary(ctx context.Context, start, end string) (*models.RevenueSummary, error) {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	total, err := s.store.TotalRevenue(ctx, r)
	if err != nil {
		return nil, err
	}
	return &models.RevenueSummary{
		StartDate:    r.Start,
		EndDate:      r.End,
		TotalRevenue: models.Cents(total),
	}, nil
}

// MostSold ranks menu items by quantity sold for reservations in the range.
func (s *Service) MostSold(ctx context.Context, start, end string) ([]models.MostSoldItem, error) {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	items, err := s.store.MostSoldItems(ctx, r, models.MostSoldLimit)
	if err != nil {
		return nil, err
	}
	rankMostSold(items)
	if len(items) > models.MostSoldLimit {
		items = items[:models.MostSoldLimit]
	}
	return items, nil
}

// rankMostSold orders by quantity descending, then name ascending.
func rankMostSold(items []models.MostSoldItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TotalQuantity != items[j].TotalQuantity {
			return items[i].TotalQuantity > items[j].TotalQuantity
		}
		return items[i].Name < items[j].Name
	})
}
