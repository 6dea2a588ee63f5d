package menu

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

func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, database.MapError(err, "list menu items", "", "")
	}
	items, err := database.CollectAll(rows, database.ScanMenuItem)
	return items, database.MapError(err, "scan menu items", "", "")
}

func (s *PostgresStore) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := database.ScanMenuItem(s.db.QueryRow(ctx, database.GetMenuItemSQL, id))
	if err != nil {
		return nil, database.MapError(err, "get menu item", fmt.Sprintf("menu item %s not found", id), "")
	}
	return item, nil
}

func (s *PostgresStore) InsertMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	created, err := database.ScanMenuItem(s.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.Name, item.Description, item.Price, item.Category, item.ImageURL, item.IsAvailable))
	if err != nil {
		return nil, database.MapError(err, "insert menu item", "", "menu item conflicts with an existing row")
	}
	return created, nil
}

func (s *PostgresStore) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return database.MapError(err, "delete menu item", "",
			fmt.Sprintf("menu item %s is referenced by existing orders", id))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("menu item %s not found", id)
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

func (t *pgTx) LockMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := database.ScanMenuItem(t.tx.QueryRow(ctx, database.LockMenuItemSQL, id))
	if err != nil {
		return nil, database.MapError(err, "lock menu item", fmt.Sprintf("menu item %s not found", id), "")
	}
	return item, nil
}

func (t *pgTx) UpdateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	updated, err := database.ScanMenuItem(t.tx.QueryRow(ctx, database.UpdateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL, item.IsAvailable))
	if err != nil {
		return nil, database.MapError(err, "update menu item", fmt.Sprintf("menu item %s not found", item.ID), "")
	}
	return updated, nil
}
