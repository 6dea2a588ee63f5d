package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/models"
)

type menuEntry struct {
	name  string
	price decimal.Decimal
}

type memState struct {
	reservations map[uuid.UUID]models.Reservation
	menu         map[uuid.UUID]menuEntry
	orders       map[uuid.UUID]models.Order
	items        map[uuid.UUID][]models.OrderItem
	revenue      map[uuid.UUID]models.RevenueRecord
}

func (s *memState) clone() *memState {
	c := &memState{
		reservations: make(map[uuid.UUID]models.Reservation, len(s.reservations)),
		menu:         make(map[uuid.UUID]menuEntry, len(s.menu)),
		orders:       make(map[uuid.UUID]models.Order, len(s.orders)),
		items:        make(map[uuid.UUID][]models.OrderItem, len(s.items)),
		revenue:      make(map[uuid.UUID]models.RevenueRecord, len(s.revenue)),
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.menu {
		c.menu[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]models.OrderItem(nil), v...)
	}
	for k, v := range s.revenue {
		c.revenue[k] = v
	}
	return c
}

// memStore is an in-memory Store. Transactions run on a copy of the state
// that replaces the original only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// skipExistsCheck makes OrderExistsForReservation report false so the
	// unique constraint path is exercised.
	skipExistsCheck bool
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		reservations: map[uuid.UUID]models.Reservation{},
		menu:         map[uuid.UUID]menuEntry{},
		orders:       map[uuid.UUID]models.Order{},
		items:        map[uuid.UUID][]models.OrderItem{},
		revenue:      map[uuid.UUID]models.RevenueRecord{},
	}}
}

func (m *memStore) addReservation(status models.ReservationStatus, date string) uuid.UUID {
	id := uuid.New()
	m.state.reservations[id] = models.Reservation{
		ID:              id,
		CustomerName:    "Guest",
		ReservationDate: date,
		ReservationTime: "19:00:00",
		NumberOfGuests:  2,
		Status:          status,
	}
	return id
}

func (m *memStore) addMenuItem(name, price string) uuid.UUID {
	id := uuid.New()
	m.state.menu[id] = menuEntry{name: name, price: decimal.RequireFromString(price)}
	return id
}

func (m *memStore) setPrice(id uuid.UUID, price string) {
	e := m.state.menu[id]
	e.price = decimal.RequireFromString(price)
	m.state.menu[id] = e
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: work, skipExistsCheck: m.skipExistsCheck}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

func (m *memStore) GetOrderByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.state.orders {
		if o.ReservationID == reservationID {
			return m.load(id)
		}
	}
	return nil, apperror.NotFound("no order found for reservation %s", reservationID)
}

func (m *memStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for id := range m.state.orders {
		o, _ := m.load(id)
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (m *memStore) load(id uuid.UUID) (*models.Order, error) {
	o, ok := m.state.orders[id]
	if !ok {
		return nil, apperror.NotFound("order %s not found", id)
	}
	o.Items = []models.OrderItem{}
	for _, item := range m.state.items[id] {
		item.MenuItemName = m.state.menu[item.MenuItemID].name
		o.Items = append(o.Items, item)
	}
	return &o, nil
}

type memTx struct {
	state           *memState
	skipExistsCheck bool
}

func (t *memTx) LockReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	r, ok := t.state.reservations[id]
	if !ok {
		return nil, apperror.NotFound("reservation %s not found", id)
	}
	return &r, nil
}

func (t *memTx) OrderExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	if t.skipExistsCheck {
		return false, nil
	}
	for _, o := range t.state.orders {
		if o.ReservationID == reservationID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertOrder(ctx context.Context, reservationID uuid.UUID) (*models.Order, error) {
	for _, o := range t.state.orders {
		if o.ReservationID == reservationID {
			return nil, apperror.Conflict("an order already exists for reservation %s", reservationID)
		}
	}
	now := time.Now()
	o := models.Order{
		ID:            uuid.New(),
		ReservationID: reservationID,
		TotalAmount:   decimal.Zero,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.state.orders[o.ID] = o
	return &o, nil
}

func (t *memTx) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := t.state.orders[id]
	if !ok {
		return nil, apperror.NotFound("order %s not found", id)
	}
	return &o, nil
}

func (t *memTx) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	delete(t.state.orders, id)
	delete(t.state.items, id)
	delete(t.state.revenue, id)
	return nil
}

func (t *memTx) MenuItemPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, id := range ids {
		if e, ok := t.state.menu[id]; ok {
			out[id] = e.price
		}
	}
	return out, nil
}

func (t *memTx) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	for i := range items {
		if _, ok := t.state.menu[items[i].MenuItemID]; !ok {
			return errors.New("foreign key violation")
		}
		items[i].ID = uuid.New()
		t.state.items[items[i].OrderID] = append(t.state.items[items[i].OrderID], items[i])
	}
	return nil
}

func (t *memTx) DeleteOrderItems(ctx context.Context, orderID uuid.UUID) error {
	delete(t.state.items, orderID)
	return nil
}

func (t *memTx) SetOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error {
	o, ok := t.state.orders[orderID]
	if !ok {
		return apperror.NotFound("order %s not found", orderID)
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	t.state.orders[orderID] = o
	return nil
}

func (t *memTx) UpsertRevenueRecord(ctx context.Context, record *models.RevenueRecord) error {
	existing, ok := t.state.revenue[record.OrderID]
	if ok {
		existing.Amount = record.Amount
		existing.RecordDate = record.RecordDate
		t.state.revenue[record.OrderID] = existing
		return nil
	}
	r := *record
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	t.state.revenue[record.OrderID] = r
	return nil
}

// recordingPublisher captures published events and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}
