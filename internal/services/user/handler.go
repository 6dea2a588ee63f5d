package user

import (
	"net/http"
	"strings"

	"restaurant-system/internal/auth"
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

func (h *Handler) RegisterRoutes(mux *http.ServeMux, authn *httputil.Authenticator) {
	mux.HandleFunc("POST "+httputil.APIPrefix+"/token", h.Login)
	mux.HandleFunc("POST "+httputil.APIPrefix+"/auth/logout", h.Logout)
	mux.HandleFunc("POST "+httputil.APIPrefix+"/auth/refresh-token", authn.RequireUser(h.Refresh))
	mux.HandleFunc("GET "+httputil.APIPrefix+"/users/me", authn.RequireUser(h.Me))
	mux.HandleFunc("POST "+httputil.APIPrefix+"/users", authn.RequireAdmin(h.Create))
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /token. Credentials come as an OAuth2 password form or
// as a JSON body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		creds.Username = r.PostFormValue("username")
		creds.Password = r.PostFormValue("password")
	} else if err := httputil.DecodeJSON(r, &creds); err != nil {
		h.responder.Error(w, r, "login_failed", err)
		return
	}

	token, err := h.service.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		h.responder.Error(w, r, "login_failed", err)
		return
	}

	h.logger.Info("user_logged_in", "User logged in", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"username": creds.Username,
		"role":     string(token.UserRole),
	})
	h.responder.JSON(w, r, http.StatusOK, token)
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.responder.NoContent(w)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	token, err := h.service.Refresh(user)
	if err != nil {
		h.responder.Error(w, r, "token_refresh_failed", err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, token)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.responder.JSON(w, r, http.StatusOK, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, "user_validation_failed", err)
		return
	}
	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.responder.Error(w, r, "user_create_failed", err)
		return
	}
	h.logger.Info("user_created", "User created", logger.RequestIDFromContext(r.Context()), map[string]interface{}{
		"username": user.Username,
		"role":     string(user.Role),
	})
	h.responder.JSON(w, r, http.StatusCreated, user)
}
