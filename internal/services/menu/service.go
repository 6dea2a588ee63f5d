package menu

import (
	"context"

	"github.com/google/uuid"

	"restaurant-system/internal/models"
)

type Store interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	InsertMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	// DeleteMenuItem fails with Conflict while order items reference the item.
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view used by partial updates.
type Tx interface {
	// LockMenuItem reads the item and holds its row until the transaction ends.
	LockMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenuItems(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.store.GetMenuItem(ctx, id)
}

func (s *Service) Create(ctx context.Context, req *models.MenuItemCreate) (*models.MenuItem, error) {
	item, err := req.Validate()
	if err != nil {
		return nil, err
	}
	return s.store.InsertMenuItem(ctx, item)
}

// Update merges the supplied fields onto the stored item. Existing order
// items keep the price they were written with.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *models.MenuItemPatch) (*models.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *models.MenuItem
	err := s.store.InTx(ctx, func(tx Tx) error {
		item, err := tx.LockMenuItem(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(item)
		updated, err = tx.UpdateMenuItem(ctx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteMenuItem(ctx, id)
}
