package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const MaxPasswordBytes = 72

// UserCreate is the request body for POST /users.
type UserCreate struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (req *UserCreate) Validate() error {
	if err := validateRequired("username", req.Username, 50); err != nil {
		return err
	}
	if len(req.Password) < 6 {
		return ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}
	// bcrypt refuses longer input.
	if len(req.Password) > MaxPasswordBytes {
		return ValidationError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)}
	}
	if req.Role == "" {
		req.Role = RoleCustomer
	}
	if !req.Role.Valid() {
		return ValidationError{Field: "role", Message: "must be one of: admin, customer"}
	}
	return nil
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserRole    Role   `json:"user_role"`
}
