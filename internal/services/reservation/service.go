package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restaurant-system/internal/models"
)

type Store interface {
	// ListReservations returns reservations ordered by date and time,
	// restricted to date when it is non-nil.
	ListReservations(ctx context.Context, date *string) ([]models.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	InsertReservation(ctx context.Context, r *models.Reservation) (*models.Reservation, error)
	// DeleteReservation fails with Conflict while an order references it.
	DeleteReservation(ctx context.Context, id uuid.UUID) error
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view used by partial updates.
type Tx interface {
	LockReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, r *models.Reservation) (*models.Reservation, error)
	// SetRevenueRecordDate moves the revenue record of the reservation's
	// order, if any, to date.
	SetRevenueRecordDate(ctx context.Context, reservationID uuid.UUID, date string) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *models.ReservationCreate) (*models.Reservation, error) {
	r, err := req.Validate()
	if err != nil {
		return nil, err
	}
	return s.store.InsertReservation(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

func (s *Service) List(ctx context.Context, date *string) ([]models.Reservation, error) {
	return s.store.ListReservations(ctx, date)
}

// Today lists the reservations for the server's current local date.
func (s *Service) Today(ctx context.Context) ([]models.Reservation, error) {
	today := s.now().Format(models.DateLayout)
	return s.store.ListReservations(ctx, &today)
}

// Update merges the supplied fields onto the locked row. Any status may
// follow any other. A date change is carried over to the order's revenue
// record so revenue and sales reports agree.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *models.ReservationPatch) (*models.Reservation, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Reservation
	err := s.store.InTx(ctx, func(tx Tx) error {
		r, err := tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		previousDate := r.ReservationDate
		patch.Apply(r)

		updated, err = tx.UpdateReservation(ctx, r)
		if err != nil {
			return err
		}
		if updated.ReservationDate != previousDate {
			return tx.SetRevenueRecordDate(ctx, id, updated.ReservationDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteReservation(ctx, id)
}
