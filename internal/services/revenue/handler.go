package revenue

import (
	"net/http"

	"restaurant-system/internal/httputil"
)

type Handler struct {
	service   *Service
	responder *httputil.Responder
}

func NewHandler(service *Service, rs *httputil.Responder) *Handler {
	return &Handler{service: service, responder: rs}
}

// RegisterRoutes mounts the admin-only reporting endpoints. Each accepts
// optional start_date and end_date query parameters.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authn *httputil.Authenticator) {
	mux.HandleFunc("GET "+httputil.APIPrefix+"/revenue", authn.RequireAdmin(h.Records))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/revenue/summary", authn.RequireAdmin(h.Summary))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/stats/most-sold-items", authn.RequireAdmin(h.MostSold))
}

func dateParams(r *http.Request) (string, string) {
	q := r.URL.Query()
	return q.Get("start_date"), q.Get("end_date")
}

func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	start, end := dateParams(r)
	records, err := h.service.Records(r.Context(), start, end)
	if err != nil {
		h.responder.Error(w, r, "revenue_list_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, records)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end := dateParams(r)
	summary, err := h.service.Summary(r.Context(), start, end)
	if err != nil {
		h.responder.Error(w, r, "revenue_summary_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, summary)
}

func (h *Handler) MostSold(w http.ResponseWriter, r *http.Request) {
	start, end := dateParams(r)
	items, err := h.service.MostSold(r.Context(), start, end)
	if err != nil {
		h.responder.Error(w, r, "most_sold_items_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, items)
}
