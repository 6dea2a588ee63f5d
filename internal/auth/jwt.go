package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-system/internal/config"
	"restaurant-system/internal/models"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the username as subject and the role the token was issued for.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// JWTManager issues and validates HMAC-signed access tokens.
type JWTManager struct {
	secret   []byte
	method   *jwt.SigningMethodHMAC
	lifetime time.Duration
	now      func() time.Time
}

func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errors.New("jwt secret key is required")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.TokenLifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &JWTManager{
		secret:   []byte(secret),
		method:   method,
		lifetime: cfg.TokenLifetime,
		now:      time.Now,
	}, nil
}

func signingMethod(name string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	}
	return nil, fmt.Errorf("unsupported jwt algorithm %q", name)
}

// Issue signs a token for username with the given role.
func (m *JWTManager) Issue(username string, role models.Role) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrInvalidToken)
	}
	return claims, nil
}
