// Package seed prepares a database for demos: it ensures an admin account and
// can generate a history of reservations whose completed ones are billed
// through the regular order workflow.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, username, password string) (*models.User, error)
}

type MenuLister interface {
	List(ctx context.Context) ([]models.MenuItem, error)
}

type ReservationCreator interface {
	Create(ctx context.Context, req *models.ReservationCreate) (*models.Reservation, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
}

// HistoryClearer deletes all orders and reservations.
type HistoryClearer interface {
	ClearHistory(ctx context.Context) error
}

type Options struct {
	AdminUser     string
	AdminPassword string
	// HistoryDays is the number of past days to fill, ending yesterday. Zero
	// skips history generation.
	HistoryDays int
	Clear       bool
}

// Result counts what a run created.
type Result struct {
	Reservations int
	Orders       int
}

type Seeder struct {
	users        AdminEnsurer
	menu         MenuLister
	reservations ReservationCreator
	orders       OrderCreator
	clearer      HistoryClearer
	logger       *logger.Logger

	rng *rand.Rand
	now func() time.Time
}

func New(users AdminEnsurer, menu MenuLister, reservations ReservationCreator, orders OrderCreator,
	clearer HistoryClearer, log *logger.Logger) *Seeder {
	return &Seeder{
		users:        users,
		menu:         menu,
		reservations: reservations,
		orders:       orders,
		clearer:      clearer,
		logger:       log,
		rng:          rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:          time.Now,
	}
}

var seedStatuses = []models.ReservationStatus{
	models.ReservationCompleted,
	models.ReservationNoShow,
	models.ReservationCancelled,
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	if opts.Clear {
		if err := s.clearer.ClearHistory(ctx); err != nil {
			return nil, fmt.Errorf("clear history: %w", err)
		}
		s.logger.Info("seed_cleared", "Cleared existing orders and reservations", "seed", nil)
	}

	admin, err := s.users.EnsureAdmin(ctx, opts.AdminUser, opts.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	s.logger.Info("seed_admin_ready", fmt.Sprintf("Admin user %q is ready", admin.Username), "seed", nil)

	if opts.HistoryDays <= 0 {
		return res, nil
	}

	menu, err := s.menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if len(menu) == 0 {
		s.logger.Warn("seed_no_menu", "No menu items found; skipping reservations and orders", "seed", nil)
		return res, nil
	}

	today := s.now()
	for day := opts.HistoryDays; day >= 1; day-- {
		date := today.AddDate(0, 0, -day)
		if err := s.seedDay(ctx, date, menu, res); err != nil {
			return res, fmt.Errorf("seed %s: %w", date.Format(models.DateLayout), err)
		}
	}

	s.logger.Info("seed_completed", "Database seeding completed", "seed", map[string]interface{}{
		"reservations": res.Reservations,
		"orders":       res.Orders,
	})
	return res, nil
}

func (s *Seeder) seedDay(ctx context.Context, date time.Time, menu []models.MenuItem, res *Result) error {
	count := 5 + s.rng.IntN(6)
	for i := 1; i <= count; i++ {
		tag := fmt.Sprintf("%s-%d", date.Format("0102"), i)
		guests := 2 + s.rng.IntN(7)

		req := &models.ReservationCreate{
			CustomerName:    "Guest " + tag,
			CustomerEmail:   fmt.Sprintf("guest%s%d@example.com", date.Format("0102"), i),
			CustomerPhone:   fmt.Sprintf("0%d%08d", 6+s.rng.IntN(2), 10000000+s.rng.IntN(90000000)),
			ReservationDate: date.Format(models.DateLayout),
			ReservationTime: fmt.Sprintf("%02d:%02d", 18+s.rng.IntN(5), 15*s.rng.IntN(4)),
			NumberOfGuests:  guests,
			Status:          seedStatuses[s.rng.IntN(len(seedStatuses))],
		}
		if s.rng.Float64() >= 0.7 {
			note := fmt.Sprintf("Special request %d.", 1+s.rng.IntN(5))
			req.Notes = &note
		}

		reservation, err := s.reservations.Create(ctx, req)
		if err != nil {
			return err
		}
		res.Reservations++

		if reservation.Status != models.ReservationCompleted {
			continue
		}
		if _, err := s.orders.CreateOrder(ctx, s.randomOrder(reservation, menu)); err != nil {
			return err
		}
		res.Orders++
	}
	return nil
}

// randomOrder picks up to five distinct dishes in quantities scaled to the party size.
func (s *Seeder) randomOrder(r *models.Reservation, menu []models.MenuItem) *models.OrderRequest {
	n := 1 + s.rng.IntN(min(5, len(menu)))
	picks := s.rng.Perm(len(menu))[:n]

	maxQty := max(r.NumberOfGuests/2, 1)
	req := &models.OrderRequest{ReservationID: r.ID}
	for _, idx := range picks {
		req.Items = append(req.Items, models.OrderLine{
			MenuItemID: menu[idx].ID,
			Quantity:   1 + s.rng.IntN(maxQty),
		})
	}
	return req
}
