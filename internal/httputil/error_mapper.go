package httputil

import (
	"context"
	"errors"
	"net/http"

	"restaurant-system/internal/apperror"
)

// HTTPErrorInfo contains the HTTP status, the machine-readable code and the
// caller-facing message for an error.
type HTTPErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ErrorMapper maps classified errors to HTTP status codes.
type ErrorMapper struct {
	statuses      map[apperror.Kind]int
	defaultStatus int
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		statuses:      make(map[apperror.Kind]int),
		defaultStatus: http.StatusInternalServerError,
	}
}

// DefaultErrorMapper returns the mapping used by every handler.
func DefaultErrorMapper() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(apperror.KindNotFound, http.StatusNotFound).
		WithMapping(apperror.KindInvalidState, http.StatusBadRequest).
		WithMapping(apperror.KindBadRequest, http.StatusBadRequest).
		WithMapping(apperror.KindConflict, http.StatusConflict).
		WithMapping(apperror.KindUnauthorized, http.StatusUnauthorized).
		WithMapping(apperror.KindForbidden, http.StatusForbidden).
		WithMapping(apperror.KindInternal, http.StatusInternalServerError)
}

func (m *ErrorMapper) WithMapping(kind apperror.Kind, status int) *ErrorMapper {
	m.statuses[kind] = status
	return m
}

// Map converts err to its HTTP representation.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Code: "timeout", Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Code: "cancelled", Message: "request cancelled"}
	}

	kind := apperror.KindOf(err)
	status, ok := m.statuses[kind]
	if !ok {
		status = m.defaultStatus
	}
	return HTTPErrorInfo{Status: status, Code: string(kind), Message: apperror.Message(err)}
}
