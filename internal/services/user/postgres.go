package user

import (
	"context"
	"fmt"

	"restaurant-system/internal/database"
	"restaurant-system/internal/models"
)

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := database.ScanUser(s.db.QueryRow(ctx, database.GetUserByUsernameSQL, username))
	if err != nil {
		return nil, database.MapError(err, "get user", fmt.Sprintf("user %q not found", username), "")
	}
	return u, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, username, hashedPassword string, role models.Role) (*models.User, error) {
	u, err := database.ScanUser(s.db.QueryRow(ctx, database.InsertUserSQL, username, hashedPassword, role))
	if err != nil {
		return nil, database.MapError(err, "insert user", "", fmt.Sprintf("username %q is already registered", username))
	}
	return u, nil
}

func (s *PostgresStore) UpsertAdmin(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	u, err := database.ScanUser(s.db.QueryRow(ctx, database.UpsertAdminUserSQL, username, hashedPassword))
	if err != nil {
		return nil, database.MapError(err, "upsert admin", "", "")
	}
	return u, nil
}
