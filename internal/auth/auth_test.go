package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-system/internal/config"
	"restaurant-system/internal/models"
)

func newTestManager(t *testing.T, algorithm string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(config.AuthConfig{
		SecretKey:     "test-secret",
		Algorithm:     algorithm,
		TokenLifetime: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			m := newTestManager(t, alg)
			token, err := m.Issue("admin", models.RoleAdmin)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			claims, err := m.Validate(token)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if claims.Subject != "admin" || claims.Role != models.RoleAdmin {
				t.Fatalf("unexpected claims %+v", claims)
			}
		})
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	m := newTestManager(t, "HS256")
	token, err := m.Issue("guest", models.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := m.Validate(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	other, _ := NewJWTManager(config.AuthConfig{SecretKey: "other", TokenLifetime: time.Hour})
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature mismatch to be invalid, got %v", err)
	}

	hs512 := newTestManager(t, "HS512")
	if _, err := hs512.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected algorithm mismatch to be invalid, got %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}

func TestNewJWTManager_Config(t *testing.T) {
	if _, err := NewJWTManager(config.AuthConfig{Algorithm: "HS256", TokenLifetime: time.Hour}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, err := NewJWTManager(config.AuthConfig{SecretKey: "s", Algorithm: "RS256", TokenLifetime: time.Hour}); err == nil {
		t.Fatal("expected unsupported algorithm to fail")
	}
	if _, err := NewJWTManager(config.AuthConfig{SecretKey: "s"}); err == nil {
		t.Fatal("expected zero lifetime to fail")
	}
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hashed, "secret1") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hashed, "secret2") {
		t.Fatal("expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "secret1") {
		t.Fatal("expected malformed hash to fail")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"":             "",
		"Bearer":       "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", header)
		if got := ExtractBearerToken(r); got != want {
			t.Fatalf("ExtractBearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("expected no user")
	}
	ctx := WithUser(context.Background(), &models.User{Username: "admin", Role: models.RoleAdmin})
	user, ok := UserFromContext(ctx)
	if !ok || user.Username != "admin" {
		t.Fatalf("unexpected user %+v", user)
	}
}
