package utils

import (
	"encoding/json"
	"net/http"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 Unauthorized error
func Unauthorized(message string) error {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// NotFound creates a 404 Not Found error
func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

// GatewayTimeout creates a 504 Gateway Timeout error
func GatewayTimeout(message string) error {
	return NewHTTPError(http.StatusGatewayTimeout, message)
}

// WriteError sends err as {"error": message}. Errors other than HTTPError become a 500
// that still carries the underlying message.
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(httpErr)
}
