package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/messaging"
	"restaurant-system/internal/models"
)

// Store is the order persistence boundary.
type Store interface {
	// InTx runs fn in one transaction, rolling back when fn fails.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// Tx is the set of statements the order workflow runs inside a transaction.
type Tx interface {
	LockReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	OrderExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error)
	// InsertOrder creates an empty order. A second order for the same
	// reservation is a Conflict.
	InsertOrder(ctx context.Context, reservationID uuid.UUID) (*models.Order, error)
	LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	MenuItemPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// InsertOrderItems writes all items and fills in their ids.
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID uuid.UUID) error
	SetOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error
	UpsertRevenueRecord(ctx context.Context, record *models.RevenueRecord) error
}

type Service struct {
	store     Store
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

func NewService(store Store, publisher messaging.EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder bills a completed reservation. The order, its items and its
// revenue record are written in one transaction.
func (s *Service) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var orderID uuid.UUID
	err := s.store.InTx(ctx, func(tx Tx) error {
		reservation, err := tx.LockReservation(ctx, req.ReservationID)
		if err != nil {
			return err
		}
		if !reservation.Status.Orderable() {
			return apperror.InvalidState(
				"order can only be created for a completed reservation; reservation %s is %s",
				reservation.ID, reservation.Status)
		}

		exists, err := tx.OrderExistsForReservation(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Conflict("an order already exists for reservation %s", reservation.ID)
		}

		order, err := tx.InsertOrder(ctx, reservation.ID)
		if err != nil {
			return err
		}
		orderID = order.ID

		return s.writeItems(ctx, tx, order.ID, reservation, req.Items)
	})
	if err != nil {
		return nil, err
	}

	return s.reloadAndPublish(ctx, orderID, models.EventOrderCreated)
}

// UpdateOrder replaces every line of an existing order and recomputes its
// total from current menu prices.
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, req *models.OrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.store.InTx(ctx, func(tx Tx) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.ReservationID != req.ReservationID {
			return apperror.BadRequest("reservation_id cannot be changed on an existing order")
		}

		reservation, err := tx.LockReservation(ctx, order.ReservationID)
		if err != nil {
			return err
		}

		if err := tx.DeleteOrderItems(ctx, order.ID); err != nil {
			return err
		}
		return s.writeItems(ctx, tx, order.ID, reservation, req.Items)
	})
	if err != nil {
		return nil, err
	}

	return s.reloadAndPublish(ctx, id, models.EventOrderUpdated)
}

// DeleteOrder removes an order; its items and revenue record go with it.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	var deleted *models.Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		deleted = order
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, models.EventOrderDeleted, deleted)
	return nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) GetOrderByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Order, error) {
	return s.store.GetOrderByReservation(ctx, reservationID)
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// writeItems prices lines, stores them, sets the order total and books the
// revenue for the reservation's date.
func (s *Service) writeItems(ctx context.Context, tx Tx, orderID uuid.UUID, reservation *models.Reservation, lines []models.OrderLine) error {
	req := models.OrderRequest{Items: lines}
	prices, err := tx.MenuItemPrices(ctx, req.MenuItemIDs())
	if err != nil {
		return err
	}

	items, total, err := priceLines(orderID, lines, prices)
	if err != nil {
		return err
	}

	if err := tx.InsertOrderItems(ctx, items); err != nil {
		return err
	}
	if err := tx.SetOrderTotal(ctx, orderID, total); err != nil {
		return err
	}

	return tx.UpsertRevenueRecord(ctx, &models.RevenueRecord{
		OrderID:       orderID,
		ReservationID: reservation.ID,
		Amount:        total,
		RecordDate:    reservation.ReservationDate,
	})
}

func (s *Service) reloadAndPublish(ctx context.Context, id uuid.UUID, event string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload order %s: %w", id, err)
	}
	s.publish(ctx, event, order)
	return order, nil
}

// publish announces a committed change. Failures are logged only.
func (s *Service) publish(ctx context.Context, event string, order *models.Order) {
	requestID := logger.RequestIDFromContext(ctx)
	if err := s.publisher.PublishOrderEvent(ctx, models.NewOrderEvent(event, order)); err != nil {
		s.logger.Error("order_event_publish_failed", "Failed to publish order event", requestID, err, map[string]interface{}{
			"event":    event,
			"order_id": order.ID.String(),
		})
		return
	}
	s.logger.Info("order_event_published", fmt.Sprintf("Order %s: %s", order.ID, event), requestID, map[string]interface{}{
		"order_id":     order.ID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
	})
}
