package user

import (
	"context"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/auth"
	"restaurant-system/internal/models"
)

const tokenType = "bearer"

type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// InsertUser fails with Conflict when the username is taken.
	InsertUser(ctx context.Context, username, hashedPassword string, role models.Role) (*models.User, error)
	// UpsertAdmin creates the user or resets its password and promotes it to admin.
	UpsertAdmin(ctx context.Context, username, hashedPassword string) (*models.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(username string, role models.Role) (string, error)
}

type Service struct {
	store  Store
	issuer TokenIssuer
}

func NewService(store Store, issuer TokenIssuer) *Service {
	return &Service{store: store, issuer: issuer}
}

// GetUserByUsername lets the service act as the authenticator's user lookup.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// Login exchanges credentials for an access token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Token, error) {
	if username == "" || password == "" {
		return nil, apperror.BadRequest("username and password are required")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("incorrect username or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return nil, apperror.Unauthorized("incorrect username or password")
	}
	return s.tokenFor(user)
}

// Refresh issues a fresh token for an already authenticated user.
func (s *Service) Refresh(user *models.User) (*models.Token, error) {
	return s.tokenFor(user)
}

func (s *Service) Create(ctx context.Context, req *models.UserCreate) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.store.InsertUser(ctx, req.Username, hashed, req.Role)
}

// EnsureAdmin makes sure an admin with the given credentials exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	req := models.UserCreate{Username: username, Password: password, Role: models.RoleAdmin}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.store.UpsertAdmin(ctx, username, hashed)
}

func (s *Service) tokenFor(user *models.User) (*models.Token, error) {
	token, err := s.issuer.Issue(user.Username, user.Role)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "issue token")
	}
	return &models.Token{AccessToken: token, TokenType: tokenType, UserRole: user.Role}, nil
}
