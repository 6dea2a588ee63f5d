package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/logger"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Responder writes JSON success and error responses and logs failures.
type Responder struct {
	logger *logger.Logger
	mapper *ErrorMapper
}

func NewResponder(log *logger.Logger) *Responder {
	return &Responder{logger: log, mapper: DefaultErrorMapper()}
}

func (rs *Responder) JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("response_encoding_failed", "Failed to encode response",
			logger.RequestIDFromContext(r.Context()), err, nil)
	}
}

func (rs *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err to a status code and writes the error body. Server-side
// failures are logged at error level, client errors at debug.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, action string, err error) {
	info := rs.mapper.Map(err)
	requestID := logger.RequestIDFromContext(r.Context())

	fields := map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": info.Status,
	}
	if info.Status >= http.StatusInternalServerError {
		rs.logger.Error(action, "Request failed", requestID, err, fields)
	} else {
		fields["detail"] = err.Error()
		rs.logger.Debug(action, "Request rejected", requestID, fields)
	}

	if info.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	rs.JSON(w, r, info.Status, ErrorResponse{
		Detail:    info.Message,
		Code:      info.Code,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeJSON decodes a single JSON object from the request body, rejecting
// unknown fields and trailing data.
func DecodeJSON(r *http.Request, v interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return apperror.BadRequest("Content-Type must be application/json")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.BadRequest("request body is required")
		}
		return apperror.Wrap(apperror.KindBadRequest, err, "invalid JSON body: %v", err)
	}
	if decoder.More() {
		return apperror.BadRequest("request body must contain a single JSON object")
	}
	return nil
}

// PathUUID parses the named path wildcard as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.BadRequest("%s must be a valid UUID", name)
	}
	return id, nil
}

// QueryDate returns the named query parameter if it is a valid YYYY-MM-DD date.
func QueryDate(r *http.Request, name string) (*string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return nil, apperror.BadRequest("%s must be a date in YYYY-MM-DD format", name)
	}
	return &raw, nil
}
