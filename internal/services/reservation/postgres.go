package reservation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/database"
	"restaurant-system/internal/models"
)

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListReservations(ctx context.Context, date *string) ([]models.Reservation, error) {
	rows, err := s.db.Query(ctx, database.ListReservationsSQL, date)
	if err != nil {
		return nil, database.MapError(err, "list reservations", "", "")
	}
	out, err := database.CollectAll(rows, database.ScanReservation)
	return out, database.MapError(err, "scan reservations", "", "")
}

func (s *PostgresStore) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	r, err := database.ScanReservation(s.db.QueryRow(ctx, database.GetReservationSQL, id))
	if err != nil {
		return nil, database.MapError(err, "get reservation", fmt.Sprintf("reservation %s not found", id), "")
	}
	return r, nil
}

func (s *PostgresStore) InsertReservation(ctx context.Context, r *models.Reservation) (*models.Reservation, error) {
	created, err := database.ScanReservation(s.db.QueryRow(ctx, database.InsertReservationSQL,
		r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.ReservationDate, r.ReservationTime,
		r.NumberOfGuests, r.Status, r.Notes))
	if err != nil {
		return nil, database.MapError(err, "insert reservation", "", "reservation conflicts with an existing row")
	}
	return created, nil
}

func (s *PostgresStore) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteReservationSQL, id)
	if err != nil {
		return database.MapError(err, "delete reservation", "",
			fmt.Sprintf("reservation %s has an order and cannot be deleted", id))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("reservation %s not found", id)
	}
	return nil
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.InTx(ctx, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
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

func (t *pgTx) UpdateReservation(ctx context.Context, r *models.Reservation) (*models.Reservation, error) {
	updated, err := database.ScanReservation(t.tx.QueryRow(ctx, database.UpdateReservationSQL,
		r.ID, r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.ReservationDate, r.ReservationTime,
		r.NumberOfGuests, r.Status, r.Notes))
	if err != nil {
		return nil, database.MapError(err, "update reservation", fmt.Sprintf("reservation %s not found", r.ID), "")
	}
	return updated, nil
}

func (t *pgTx) SetRevenueRecordDate(ctx context.Context, reservationID uuid.UUID, date string) error {
	_, err := t.tx.Exec(ctx, database.SetRevenueRecordDateSQL, reservationID, date)
	return database.MapError(err, "set revenue record date", "", "")
}
