package order

import (
	"context"
	"net/http"
	"time"

	"restaurant-system/internal/httputil"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

const requestTimeout = 30 * time.Second

// Handler exposes the order workflow over HTTP.
type Handler struct {
	service   *Service
	responder *httputil.Responder
	logger    *logger.Logger
}

func NewHandler(service *Service, rs *httputil.Responder, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		responder: rs,
		logger:    log,
	}
}

// RegisterRoutes mounts the admin-only order endpoints.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authn *httputil.Authenticator) {
	mux.HandleFunc("POST "+httputil.APIPrefix+"/orders", authn.RequireAdmin(h.CreateOrder))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/orders", authn.RequireAdmin(h.ListOrders))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/orders/{id}", authn.RequireAdmin(h.GetOrder))
	mux.HandleFunc("PUT "+httputil.APIPrefix+"/orders/{id}", authn.RequireAdmin(h.UpdateOrder))
	mux.HandleFunc("DELETE "+httputil.APIPrefix+"/orders/{id}", authn.RequireAdmin(h.DeleteOrder))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/reservations/{id}/order", authn.RequireAdmin(h.GetReservationOrder))
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, "order_validation_failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, &req)
	if err != nil {
		h.responder.Error(w, r, "order_creation_failed", err)
		return
	}

	h.logger.Info("order_created", "Order created", logger.RequestIDFromContext(ctx), map[string]interface{}{
		"order_id":       order.ID.String(),
		"reservation_id": order.ReservationID.String(),
		"total_amount":   order.TotalAmount.StringFixed(2),
		"item_count":     len(order.Items),
	})
	h.responder.JSON(w, r, http.StatusCreated, order)
}

// ListOrders handles GET /orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.responder.Error(w, r, "order_list_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "order_lookup_failed", err)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "order_lookup_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, order)
}

// UpdateOrder handles PUT /orders/{id}
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "order_update_failed", err)
		return
	}

	var req models.OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, "order_validation_failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.UpdateOrder(ctx, id, &req)
	if err != nil {
		h.responder.Error(w, r, "order_update_failed", err)
		return
	}

	h.logger.Info("order_updated", "Order updated", logger.RequestIDFromContext(ctx), map[string]interface{}{
		"order_id":     order.ID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
		"item_count":   len(order.Items),
	})
	h.responder.JSON(w, r, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "order_delete_failed", err)
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.responder.Error(w, r, "order_delete_failed", err)
		return
	}

	h.logger.Info("order_deleted", "Order deleted", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"order_id": id.String(),
	})
	h.responder.NoContent(w)
}

// GetReservationOrder handles GET /reservations/{id}/order
func (h *Handler) GetReservationOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "order_lookup_failed", err)
		return
	}

	order, err := h.service.GetOrderByReservation(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "order_lookup_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, order)
}
