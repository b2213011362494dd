package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/nexa/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Agent errors
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, "AGENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrInvalidAgentID):
		return http.StatusBadRequest, "INVALID_REQUEST", message

	// Session errors
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "UNAUTHORIZED", message

	// Form errors
	case errors.Is(err, domain.ErrUnknownForm):
		return http.StatusNotFound, "UNKNOWN_FORM", message

	// Validation errors
	case errors.Is(err, domain.ErrEmptyAgentName),
		errors.Is(err, domain.ErrInvalidModel),
		errors.Is(err, domain.ErrInvalidTemperature),
		errors.Is(err, domain.ErrInvalidTool),
		errors.Is(err, domain.ErrInvalidConnector),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Remote API errors
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Upstream API unavailable"

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
