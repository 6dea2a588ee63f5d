package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/database"
	"restaurant-system/internal/models"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.InTx(ctx, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

func (s *PostgresStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := database.ScanOrder(s.db.QueryRow(ctx, database.GetOrderSQL, id))
	if err != nil {
		return nil, database.MapError(err, "get order", fmt.Sprintf("order %s not found", id), "")
	}
	if err := s.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) GetOrderByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Order, error) {
	order, err := database.ScanOrder(s.db.QueryRow(ctx, database.GetOrderByReservationSQL, reservationID))
	if err != nil {
		return nil, database.MapError(err, "get order by reservation",
			fmt.Sprintf("no order found for reservation %s", reservationID), "")
	}
	if err := s.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, database.ListOrdersSQL)
	if err != nil {
		return nil, database.MapError(err, "list orders", "", "")
	}
	orders, err := database.CollectAll(rows, database.ScanOrder)
	if err != nil {
		return nil, database.MapError(err, "scan orders", "", "")
	}

	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := s.attachItems(ctx, ptrs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all given orders with one query.
func (s *PostgresStore) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID.String())
	}

	rows, err := s.db.Query(ctx, database.ListOrderItemsSQL, ids)
	if err != nil {
		return database.MapError(err, "list order items", "", "")
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.MenuItemName,
			&item.Quantity, &item.PriceAtOrder, &item.Subtotal)
		if err != nil {
			return database.MapError(err, "scan order item", "", "")
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return database.MapError(rows.Err(), "list order items", "", "")
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	r, err := database.ScanReservation(t.tx.QueryRow(ctx, database.LockReservationSQL, id))
	if err != nil {
		return nil, database.MapError(err, "lock reservation", fmt.Sprintf("reservation %s not found", id), "")
	}
	return r, nil
}

func (t *pgTx) OrderExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var exists bool
	if err := t.tx.QueryRow(ctx, database.OrderExistsForReservationSQL, reservationID).Scan(&exists); err != nil {
		return false, database.MapError(err, "check existing order", "", "")
	}
	return exists, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, reservationID uuid.UUID) (*models.Order, error) {
	o, err := database.ScanOrder(t.tx.QueryRow(ctx, database.InsertOrderSQL, reservationID))
	if err != nil {
		return nil, database.MapError(err, "insert order", "",
			fmt.Sprintf("an order already exists for reservation %s", reservationID))
	}
	return o, nil
}

func (t *pgTx) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := database.ScanOrder(t.tx.QueryRow(ctx, database.LockOrderSQL, id))
	if err != nil {
		return nil, database.MapError(err, "lock order", fmt.Sprintf("order %s not found", id), "")
	}
	return o, nil
}

func (t *pgTx) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := t.tx.Exec(ctx, database.DeleteOrderSQL, id); err != nil {
		return database.MapError(err, "delete order", "", "")
	}
	return nil
}

func (t *pgTx) MenuItemPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := t.tx.Query(ctx, database.MenuItemPricesSQL, raw)
	if err != nil {
		return nil, database.MapError(err, "load menu prices", "", "")
	}
	defer rows.Close()

	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, database.MapError(err, "scan menu price", "", "")
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(err, "load menu prices", "", "")
	}
	return prices, nil
}

// InsertOrderItems sends every insert in a single batch round trip.
func (t *pgTx) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	batch := &pgx.Batch{}
	for i := range items {
		item := &items[i]
		batch.Queue(database.InsertOrderItemSQL,
			item.OrderID, item.MenuItemID, item.Quantity, item.PriceAtOrder, item.Subtotal,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&item.ID)
		})
	}

	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return database.MapError(err, "insert order items", "", "order item references a missing menu item")
	}
	return nil
}

func (t *pgTx) DeleteOrderItems(ctx context.Context, orderID uuid.UUID) error {
	if _, err := t.tx.Exec(ctx, database.DeleteOrderItemsSQL, orderID); err != nil {
		return database.MapError(err, "delete order items", "", "")
	}
	return nil
}

func (t *pgTx) SetOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error {
	if _, err := database.ScanOrder(t.tx.QueryRow(ctx, database.SetOrderTotalSQL, orderID, total)); err != nil {
		return database.MapError(err, "set order total", fmt.Sprintf("order %s not found", orderID), "")
	}
	return nil
}

func (t *pgTx) UpsertRevenueRecord(ctx context.Context, record *models.RevenueRecord) error {
	_, err := t.tx.Exec(ctx, database.UpsertRevenueRecordSQL,
		record.OrderID, record.ReservationID, record.Amount, record.RecordDate)
	if err != nil {
		return database.MapError(err, "upsert revenue record", "", "")
	}
	return nil
}
