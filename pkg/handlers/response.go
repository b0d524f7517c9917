package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sqlbridge-io/sqlbridge/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteGatewayError maps the gateway error taxonomy onto HTTP. Rejection
// categories keep their reason text; upstream failures are reported as a
// bad gateway without leaking driver detail beyond the sanitized message.
func WriteGatewayError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorizedDatabase):
		return ErrorResponse(w, http.StatusForbidden, "unauthorized_database", err.Error())
	case errors.Is(err, apperrors.ErrInvalidIdentifier):
		return ErrorResponse(w, http.StatusBadRequest, "invalid_identifier", err.Error())
	case errors.Is(err, apperrors.ErrInvalidStatement):
		return ErrorResponse(w, http.StatusBadRequest, "invalid_statement", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	default:
		var upstream *apperrors.UpstreamError
		if errors.As(err, &upstream) {
			return ErrorResponse(w, http.StatusBadGateway, "upstream_failure", "database request failed")
		}
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
