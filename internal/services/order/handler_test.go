package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/auth"
	"restaurant-system/internal/config"
	"restaurant-system/internal/httputil"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

type staticUsers map[string]*models.User

func (s staticUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s[username]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user not found")
}

type handlerFixture struct {
	mux        *http.ServeMux
	store      *memStore
	adminToken string
	guestToken string
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	jwtm, err := auth.NewJWTManager(config.AuthConfig{SecretKey: "test", Algorithm: "HS256", TokenLifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	users := staticUsers{
		"admin": {Username: "admin", Role: models.RoleAdmin},
		"guest": {Username: "guest", Role: models.RoleCustomer},
	}
	rs := httputil.NewResponder(logger.Discard())
	store := newMemStore()
	svc, _ := newTestService(store)

	mux := http.NewServeMux()
	NewHandler(svc, rs, logger.Discard()).RegisterRoutes(mux, httputil.NewAuthenticator(jwtm, users, rs))

	adminToken, _ := jwtm.Issue("admin", models.RoleAdmin)
	guestToken, _ := jwtm.Issue("guest", models.RoleCustomer)
	return &handlerFixture{mux: mux, store: store, adminToken: adminToken, guestToken: guestToken}
}

func (f *handlerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func TestHandler_CreateOrder(t *testing.T) {
	f := newHandlerFixture(t)
	completed := f.store.addReservation(models.ReservationCompleted, "2025-06-27")
	pending := f.store.addReservation(models.ReservationPending, "2025-06-27")
	x := f.store.addMenuItem("Lasagne", "12.50")
	y := f.store.addMenuItem("Tiramisu", "5.00")

	body := func(res uuid.UUID) string {
		return fmt.Sprintf(`{"reservation_id":%q,"items":[{"menu_item_id":%q,"quantity":2},{"menu_item_id":%q,"quantity":1}]}`, res, x, y)
	}

	w := f.do(http.MethodPost, "/api/orders", f.adminToken, body(completed))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID          uuid.UUID       `json:"id"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Items       []struct {
			MenuItemName string          `json:"menu_item_name"`
			Subtotal     decimal.Decimal `json:"subtotal"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.TotalAmount.Equal(decimal.NewFromInt(30)) || len(resp.Items) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"duplicate", f.adminToken, body(completed), http.StatusConflict},
		{"pending reservation", f.adminToken, body(pending), http.StatusBadRequest},
		{"unknown reservation", f.adminToken, body(uuid.New()), http.StatusNotFound},
		{"customer", f.guestToken, body(completed), http.StatusForbidden},
		{"anonymous", "", body(completed), http.StatusUnauthorized},
		{"malformed", f.adminToken, `{"reservation_id":`, http.StatusBadRequest},
		{"no items", f.adminToken, fmt.Sprintf(`{"reservation_id":%q,"items":[]}`, completed), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/orders", tt.token, tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_OrderLifecycle(t *testing.T) {
	f := newHandlerFixture(t)
	res := f.store.addReservation(models.ReservationCompleted, "2025-06-27")
	soup := f.store.addMenuItem("Soup", "4.00")

	w := f.do(http.MethodPost, "/api/orders", f.adminToken,
		fmt.Sprintf(`{"reservation_id":%q,"items":[{"menu_item_id":%q,"quantity":1}]}`, res, soup))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Order
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w := f.do(http.MethodGet, "/api/orders/"+created.ID.String(), f.adminToken, ""); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/reservations/"+res.String()+"/order", f.adminToken, ""); w.Code != http.StatusOK {
		t.Fatalf("get by reservation: expected 200, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/orders", f.adminToken, ""); w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}

	w = f.do(http.MethodPut, "/api/orders/"+created.ID.String(), f.adminToken,
		fmt.Sprintf(`{"reservation_id":%q,"items":[{"menu_item_id":%q,"quantity":5}]}`, res, soup))
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Order
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.TotalAmount.String() != "20" {
		t.Fatalf("expected total 20, got %s", updated.TotalAmount)
	}

	if w := f.do(http.MethodDelete, "/api/orders/"+created.ID.String(), f.adminToken, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/orders/"+created.ID.String(), f.adminToken, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/orders/not-a-uuid", f.adminToken, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
}
