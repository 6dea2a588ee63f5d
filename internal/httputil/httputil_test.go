package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/auth"
	"restaurant-system/internal/config"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

func TestErrorMapper_Map(t *testing.T) {
	m := DefaultErrorMapper()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperror.NotFound("reservation not found"), http.StatusNotFound},
		{"invalid state", apperror.InvalidState("reservation is pending"), http.StatusBadRequest},
		{"bad request", apperror.BadRequest("bad"), http.StatusBadRequest},
		{"conflict", fmt.Errorf("create: %w", apperror.Conflict("exists")), http.StatusConflict},
		{"unauthorized", apperror.Unauthorized("no"), http.StatusUnauthorized},
		{"forbidden", apperror.Forbidden("no"), http.StatusForbidden},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"validation", models.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Map(tt.err).Status; got != tt.want {
				t.Errorf("Map() status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResponder_ErrorBody(t *testing.T) {
	rs := NewResponder(logger.Discard())
	r := httptest.NewRequest(http.MethodGet, "/api/orders/x", nil)
	r = r.WithContext(logger.WithRequestID(r.Context(), "req-42"))
	w := httptest.NewRecorder()

	rs.Error(w, r, "get_order_failed", apperror.NotFound("order not found"))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Detail != "order not found" || body.Code != "not_found" || body.RequestID != "req-42" || body.Timestamp == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestResponder_HidesInternalErrors(t *testing.T) {
	rs := NewResponder(logger.Discard())
	w := httptest.NewRecorder()
	rs.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), "x", errors.New("pq: password authentication failed"))

	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		ctype   string
		wantErr bool
	}{
		{"valid", `{"name":"soup"}`, "application/json", false},
		{"no content type", `{"name":"soup"}`, "", false},
		{"unknown field", `{"name":"soup","x":1}`, "application/json", true},
		{"empty", ``, "application/json", true},
		{"trailing", `{"name":"a"}{"name":"b"}`, "application/json", true},
		{"wrong type", `{"name":"soup"}`, "text/plain", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.ctype != "" {
				r.Header.Set("Content-Type", tt.ctype)
			}
			var p payload
			err := DecodeJSON(r, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperror.KindOf(err) != apperror.KindBadRequest {
				t.Fatalf("expected bad request, got %s", apperror.KindOf(err))
			}
		})
	}
}

func TestPathUUID(t *testing.T) {
	mux := http.NewServeMux()
	var gotErr error
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, gotErr = PathUUID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
	if apperror.KindOf(gotErr) != apperror.KindBadRequest {
		t.Fatalf("expected bad request, got %v", gotErr)
	}
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7f1c3c1e-3f0a-4c55-9a57-1a2b3c4d5e6f", nil))
	if gotErr != nil {
		t.Fatalf("unexpected error %v", gotErr)
	}
}

func TestWithCORS(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), WithCORS([]string{"http://localhost:5173"}))

	pre := httptest.NewRequest(http.MethodOptions, "/api/menu", nil)
	pre.Header.Set("Origin", "http://localhost:5173")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, pre)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected preflight response %d %v", w.Code, w.Header())
	}

	other := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	other.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, other)
	if w.Code != http.StatusTeapot || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected response for foreign origin %d %v", w.Code, w.Header())
	}
}

func TestWithLoggingAndRecover(t *testing.T) {
	rs := NewResponder(logger.Discard())
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithLogging(logger.Discard()), WithRecover(rs))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "given-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) != "given-id" {
		t.Fatalf("expected request id to be echoed, got %q", w.Header().Get(RequestIDHeader))
	}
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user not found")
}

func TestAuthenticator(t *testing.T) {
	jwtm, err := auth.NewJWTManager(config.AuthConfig{SecretKey: "k", Algorithm: "HS256", TokenLifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	users := fakeUsers{
		"admin": {Username: "admin", Role: models.RoleAdmin},
		"guest": {Username: "guest", Role: models.RoleCustomer},
	}
	a := NewAuthenticator(jwtm, users, NewResponder(logger.Discard()))

	adminToken, _ := jwtm.Issue("admin", models.RoleAdmin)
	guestToken, _ := jwtm.Issue("guest", models.RoleCustomer)
	staleToken, _ := jwtm.Issue("guest", models.RoleAdmin)
	ghostToken, _ := jwtm.Issue("ghost", models.RoleAdmin)

	ok := func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())
		w.Write([]byte(user.Username))
	}

	tests := []struct {
		name   string
		gate   func(http.HandlerFunc) http.HandlerFunc
		token  string
		status int
	}{
		{"admin on admin route", a.RequireAdmin, adminToken, http.StatusOK},
		{"customer on admin route", a.RequireAdmin, guestToken, http.StatusForbidden},
		{"customer on user route", a.RequireUser, guestToken, http.StatusOK},
		{"missing token", a.RequireUser, "", http.StatusUnauthorized},
		{"garbage token", a.RequireUser, "abc", http.StatusUnauthorized},
		{"role changed", a.RequireAdmin, staleToken, http.StatusUnauthorized},
		{"unknown user", a.RequireUser, ghostToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			tt.gate(ok)(w, r)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}
