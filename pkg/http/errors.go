package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/corsinf/usuarios-api/internal/models"
)

// ErrorResponse is the standard API error body: a machine-distinguishable
// kind plus a human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse wraps a bare success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a success body containing only a message.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponse{Message: message})
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: errorCode, Message: message})
}

// WriteModelError maps the service error taxonomy onto HTTP statuses.
// Connectivity failures arrive here only after the retry budget is spent,
// so the message already carries the attempt count.
func WriteModelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		WriteError(w, http.StatusConflict, "duplicate_email", "El email ingresado ya existe")
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Usuario no encontrado")
	case errors.Is(err, models.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Credenciales inválidas")
	case errors.Is(err, models.ErrFetchInFlight),
		errors.Is(err, models.ErrPageOutOfOrder),
		errors.Is(err, models.ErrLastPage):
		WriteError(w, http.StatusConflict, "pagination_conflict", err.Error())
	case errors.Is(err, models.ErrConnectionFailed), errors.Is(err, models.ErrQueryFailed):
		WriteError(w, http.StatusServiceUnavailable, "connectivity_error", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}
