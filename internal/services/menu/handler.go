package menu

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

// RegisterRoutes mounts the menu endpoints. Reads are public.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authn *httputil.Authenticator) {
	mux.HandleFunc("GET "+httputil.APIPrefix+"/menu", h.List)
	mux.HandleFunc("GET "+httputil.APIPrefix+"/menu/{id}", h.Get)
	mux.HandleFunc("POST "+httputil.APIPrefix+"/menu", authn.RequireAdmin(h.Create))
	mux.HandleFunc("PUT "+httputil.APIPrefix+"/menu/{id}", authn.RequireAdmin(h.Update))
	mux.HandleFunc("DELETE "+httputil.APIPrefix+"/menu/{id}", authn.RequireAdmin(h.Delete))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.responder.Error(w, r, "menu_list_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "menu_lookup_failed", err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "menu_lookup_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MenuItemCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, "menu_validation_failed", err)
		return
	}
	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.responder.Error(w, r, "menu_create_failed", err)
		return
	}
	h.logger.Info("menu_item_created", "Menu item created", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"menu_item_id": item.ID.String(),
		"name":         item.Name,
	})
	h.responder.JSON(w, r, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "menu_update_failed", err)
		return
	}
	var patch models.MenuItemPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		h.responder.Error(w, r, "menu_validation_failed", err)
		return
	}
	item, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		h.responder.Error(w, r, "menu_update_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		h.responder.Error(w, r, "menu_delete_failed", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.responder.Error(w, r, "menu_delete_failed", err)
		return
	}
	h.logger.Info("menu_item_deleted", "Menu item deleted", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"menu_item_id": id.String(),
	})
	h.responder.NoContent(w)
}
