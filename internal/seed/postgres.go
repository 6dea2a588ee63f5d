package seed

import (
	"context"

	"github.com/jackc/pgx/v5"

	"restaurant-system/internal/database"
)

// PostgresClearer removes orders (cascading to items and revenue) and then
// reservations, in one transaction.
type PostgresClearer struct {
	db *database.DB
}

func NewPostgresClearer(db *database.DB) *PostgresClearer {
	return &PostgresClearer{db: db}
}

func (c *PostgresClearer) ClearHistory(ctx context.Context) error {
	return c.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, database.DeleteAllOrdersSQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, database.DeleteAllReservationsSQL)
		return err
	})
}
