package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/product-catalog-api/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}

// StatusFor maps a service error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ServiceError sends the response matching a service error
func ServiceError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
