package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

type fakeDeps struct {
	admins       []string
	menu         []models.MenuItem
	reservations []models.Reservation
	orders       []*models.OrderRequest
	cleared      bool
	orderErr     error
}

func (f *fakeDeps) EnsureAdmin(_ context.Context, username, _ string) (*models.User, error) {
	f.admins = append(f.admins, username)
	return &models.User{ID: uuid.New(), Username: username, Role: models.RoleAdmin}, nil
}

func (f *fakeDeps) List(context.Context) ([]models.MenuItem, error) {
	return f.menu, nil
}

func (f *fakeDeps) Create(_ context.Context, req *models.ReservationCreate) (*models.Reservation, error) {
	r, err := req.Validate()
	if err != nil {
		return nil, err
	}
	r.ID = uuid.New()
	f.reservations = append(f.reservations, *r)
	return r, nil
}

func (f *fakeDeps) CreateOrder(_ context.Context, req *models.OrderRequest) (*models.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.orders = append(f.orders, req)
	return &models.Order{ID: uuid.New(), ReservationID: req.ReservationID}, nil
}

func (f *fakeDeps) ClearHistory(context.Context) error {
	f.cleared = true
	return nil
}

func newTestSeeder(f *fakeDeps) *Seeder {
	s := New(f, f, f, f, f, logger.Discard())
	s.rng = rand.New(rand.NewPCG(1, 2))
	s.now = func() time.Time { return time.Date(2025, 6, 27, 12, 0, 0, 0, time.UTC) }
	return s
}

func testMenu(n int) []models.MenuItem {
	items := make([]models.MenuItem, n)
	for i := range items {
		items[i] = models.MenuItem{ID: uuid.New(), Name: "Dish", Price: decimal.NewFromInt(int64(5 + i)), IsAvailable: true}
	}
	return items
}

func TestSeeder_AdminOnly(t *testing.T) {
	f := &fakeDeps{menu: testMenu(3)}
	res, err := newTestSeeder(f).Run(context.Background(), Options{AdminUser: "admin", AdminPassword: "adminpassword"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.admins) != 1 || f.admins[0] != "admin" {
		t.Fatalf("expected admin to be ensured, got %v", f.admins)
	}
	if res.Reservations != 0 || f.cleared {
		t.Fatalf("expected no history work, got %+v cleared=%v", res, f.cleared)
	}
}

func TestSeeder_History(t *testing.T) {
	f := &fakeDeps{menu: testMenu(7)}
	res, err := newTestSeeder(f).Run(context.Background(), Options{
		AdminUser:     "admin",
		AdminPassword: "adminpassword",
		HistoryDays:   3,
		Clear:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.cleared {
		t.Fatal("expected history to be cleared first")
	}
	if res.Reservations < 15 || res.Reservations > 30 {
		t.Fatalf("expected 5 to 10 reservations per day, got %d", res.Reservations)
	}

	perDay := map[string]int{}
	completed := map[uuid.UUID]models.Reservation{}
	for _, r := range f.reservations {
		perDay[r.ReservationDate]++
		if r.Status == models.ReservationCompleted {
			completed[r.ID] = r
		}
		if r.ReservationDate >= "2025-06-27" {
			t.Fatalf("history must end before today, got %s", r.ReservationDate)
		}
	}
	for _, day := range []string{"2025-06-24", "2025-06-25", "2025-06-26"} {
		if perDay[day] < 5 || perDay[day] > 10 {
			t.Fatalf("day %s has %d reservations", day, perDay[day])
		}
	}

	if res.Orders != len(completed) || len(f.orders) != len(completed) {
		t.Fatalf("expected one order per completed reservation, got %d orders for %d", res.Orders, len(completed))
	}
	for _, o := range f.orders {
		r, ok := completed[o.ReservationID]
		if !ok {
			t.Fatalf("order placed for non-completed reservation %s", o.ReservationID)
		}
		if len(o.Items) < 1 || len(o.Items) > 5 {
			t.Fatalf("unexpected line count %d", len(o.Items))
		}
		seen := map[uuid.UUID]bool{}
		for _, line := range o.Items {
			if seen[line.MenuItemID] {
				t.Fatal("expected distinct dishes per order")
			}
			seen[line.MenuItemID] = true
			if line.Quantity < 1 || line.Quantity > max(r.NumberOfGuests/2, 1) {
				t.Fatalf("quantity %d out of range for %d guests", line.Quantity, r.NumberOfGuests)
			}
		}
	}
}

func TestSeeder_EmptyMenuSkipsHistory(t *testing.T) {
	f := &fakeDeps{}
	res, err := newTestSeeder(f).Run(context.Background(), Options{AdminUser: "admin", AdminPassword: "adminpassword", HistoryDays: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reservations != 0 || len(f.reservations) != 0 {
		t.Fatalf("expected no reservations without a menu, got %d", len(f.reservations))
	}
}

func TestSeeder_OrderFailureStops(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeDeps{menu: testMenu(2), orderErr: boom}
	s := newTestSeeder(f)
	_, err := s.Run(context.Background(), Options{AdminUser: "admin", AdminPassword: "adminpassword", HistoryDays: 10})
	if !errors.Is(err, boom) {
		t.Fatalf("expected order error to surface, got %v", err)
	}
}
