package database

import (
	"github.com/jackc/pgx/v5"

	"restaurant-system/internal/models"
)

// Row scanners matching the column lists in queries.go.

func ScanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func ScanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category,
		&m.ImageURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func ScanReservation(row pgx.Row) (*models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(&r.ID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.ReservationDate, &r.ReservationTime, &r.NumberOfGuests, &r.Status, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ScanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.ReservationID, &o.TotalAmount, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []models.OrderItem{}
	return &o, nil
}

// CollectAll scans every row with scan and closes rows.
func CollectAll[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
