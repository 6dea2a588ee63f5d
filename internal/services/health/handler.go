// Package health reports whether the API can reach its dependencies.
package health

import (
	"context"
	"net/http"
	"time"

	"restaurant-system/internal/httputil"
	"restaurant-system/internal/logger"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	db        Pinger
	responder *httputil.Responder
	logger    *logger.Logger
}

func NewHandler(db Pinger, rs *httputil.Responder, log *logger.Logger) *Handler {
	return &Handler{db: db, responder: rs, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+httputil.APIPrefix+"/health", h.Health)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health_check_failed", "Database ping failed", logger.RequestIDFromContext(ctx), err, nil)
		h.responder.JSON(w, r, http.StatusServiceUnavailable, Status{Status: "unavailable", Database: "down"})
		return
	}
	h.responder.JSON(w, r, http.StatusOK, Status{Status: "ok", Database: "up"})
}
