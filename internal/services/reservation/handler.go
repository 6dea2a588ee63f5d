package reservation

import (
	"net/http"

	"restaurant-system/internal/httputil"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/models"
)

type Handler struct {
	service   *Service
	responder *httputil.Responder
	logger    *logger.Logger
}

func NewHandler(service *Service, rs *httputil.Responder, log *logger.Logger) *Handler {
	return &Handler{service: service, responder: rs, logger: log}
}

// RegisterRoutes mounts the reservation endpoints. Anyone may book a table
// and look up a booking by id; everything else needs an admin.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authn *httputil.Authenticator) {
	mux.HandleFunc("POST "+httputil.APIPrefix+"/reservations", h.Create)
	mux.HandleFunc("GET "+httputil.APIPrefix+"/reservations/{id}", h.Get)
	mux.HandleFunc("GET "+httputil.APIPrefix+"/reservations", authn.RequireAdmin(h.List))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/reservations/today", authn.RequireAdmin(h.Today))
	mux.HandleFunc("PUT "+httputil.APIPrefix+"/reservations/{id}", authn.RequireAdmin(h.Update))
	mux.HandleFunc("DELETE "+httputil.APIPrefix+"/reservations/{id}", authn.RequireAdmin(h.Delete))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, "reservation_validation_failed", err)
		return
	}
	res, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.responder.Error(w, r, "reservation_create_failed", err)
		return
	}
	h.logger.Info("reservation_created", "Reservation created", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"reservation_id":   res.ID.String(),
		"reservation_date": res.ReservationDate,
		"guests":           res.NumberOfGuests,
	})
	h.responder.JSON(w, r, http.StatusCreated, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "reservation_lookup_failed", err)
		return
	}
	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "reservation_lookup_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	date, err := httputil.QueryDate(r, "reservation_date")
	if err != nil {
		h.responder.Error(w, r, "reservation_list_failed", err)
		return
	}
	list, err := h.service.List(r.Context(), date)
	if err != nil {
		h.responder.Error(w, r, "reservation_list_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, list)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Today(r.Context())
	if err != nil {
		h.responder.Error(w, r, "reservation_list_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, list)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "reservation_update_failed", err)
		return
	}
	var patch models.ReservationPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		h.responder.Error(w, r, "reservation_validation_failed", err)
		return
	}
	res, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		h.responder.Error(w, r, "reservation_update_failed", err)
		return
	}
	if patch.Status != nil {
		h.logger.Info("reservation_status_changed", "Reservation status changed", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
			"reservation_id": res.ID.String(),
			"status":         string(res.Status),
		})
	}
	h.responder.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "reservation_delete_failed", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.responder.Error(w, r, "reservation_delete_failed", err)
		return
	}
	h.responder.NoContent(w)
}
