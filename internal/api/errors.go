package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/store"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/validators"
)

// Типы ошибок в теле ответа
const (
	errTypeValidation       = "validation_error"
	errTypeValue            = "value_error"
	errTypeServer           = "server_error"
	errTypeNotFound         = "not_found"
	errTypeMethodNotAllowed = "method_not_allowed"
	errTypeRateLimited      = "rate_limited"
)

// requestError ошибка разбора запроса с заранее известным статусом
type requestError struct {
	status  int
	errType string
	message string
}

func (e *requestError) Error() string {
	return e.message
}

var (
	errMalformedJSON = &requestError{http.StatusBadRequest, errTypeValue, "Invalid JSON payload"}
	errBodyTooLarge  = &requestError{http.StatusRequestEntityTooLarge, errTypeValue, "Request body too large"}
	errNotFound      = &requestError{http.StatusNotFound, errTypeNotFound, "Calculation not found"}
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// classify сопоставляет ошибку со статусом, типом и сообщением для клиента.
// Внутренние детали в сообщение не попадают.
func classify(err error) (status int, errType, message string) {
	var reqErr *requestError
	var valErr *validators.ValidationError
	var compErr *calculations.ComputationError

	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.errType, reqErr.message
	case errors.As(err, &valErr):
		return http.StatusBadRequest, errTypeValidation, valErr.Message
	case errors.As(err, &compErr) && compErr.BadInput:
		return http.StatusBadRequest, errTypeValue, "Invalid input values: " + compErr.Reason
	case errors.Is(err, store.ErrNotFound):
		return errNotFound.status, errNotFound.errType, errNotFound.message
	default:
		return http.StatusInternalServerError, errTypeServer, "An unexpected error occurred"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message, ErrorType: errType})
}
