// Package errors define las respuestas de error estándar de la API.
package errors

import (
	"encoding/json"
	"net/http"
)

var (
	ErrInvalidJSON         = &HTTPError{Code: "invalid_json", Message: "Invalid JSON format", Status: http.StatusBadRequest}
	ErrBadRequest          = &HTTPError{Code: "bad_request", Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized        = &HTTPError{Code: "unauthorized", Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden           = &HTTPError{Code: "forbidden", Message: "Forbidden", Status: http.StatusForbidden}
	ErrNotFound            = &HTTPError{Code: "not_found", Message: "Not found", Status: http.StatusNotFound}
	ErrMethodNotAllowed    = &HTTPError{Code: "method_not_allowed", Message: "Method not allowed", Status: http.StatusMethodNotAllowed}
	ErrTooManyRequests     = &HTTPError{Code: "too_many_requests", Message: "Too many requests", Status: http.StatusTooManyRequests}
	ErrInternalServerError = &HTTPError{Code: "internal_error", Message: "Internal server error", Status: http.StatusInternalServerError}
	ErrServiceUnavailable  = &HTTPError{Code: "service_unavailable", Message: "Service unavailable", Status: http.StatusServiceUnavailable}

	ErrTokenMissing = &HTTPError{Code: "token_missing", Message: "Missing bearer token", Status: http.StatusUnauthorized}
	ErrTokenInvalid = &HTTPError{Code: "token_invalid", Message: "Invalid bearer token", Status: http.StatusUnauthorized}
)

// HTTPError representa un error estándar de la API.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// WithDetail retorna una copia del error con detalle específico.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  detail,
		Status:  e.Status,
	}
}

// WriteError escribe el error en el response writer.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if hErr, ok := err.(*HTTPError); ok {
		httpErr = hErr
	} else {
		httpErr = ErrInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}
