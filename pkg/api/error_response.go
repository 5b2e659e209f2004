package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(response)
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound), errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIndexExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrInvalidPattern),
		errors.Is(err, domain.ErrUnsupportedOperator),
		errors.Is(err, domain.ErrInvalidNumber):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteEngineError writes err with the status code matching its kind
func WriteEngineError(w http.ResponseWriter, err error) {
	WriteJSONError(w, statusFor(err), err.Error())
}
