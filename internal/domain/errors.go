package domain

import "errors"

var (
	// Agent errors
	ErrAgentNotFound      = errors.New("agent not found")
	ErrInvalidAgentID     = errors.New("invalid agent id")
	ErrInvalidModel       = errors.New("invalid agent model")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidTool        = errors.New("invalid agent tool")
	ErrInvalidConnector   = errors.New("invalid connector type")
	ErrEmptyAgentName     = errors.New("agent name is required")

	// Session errors
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")

	// Submission errors
	ErrValidation     = errors.New("validation failed")
	ErrNetwork        = errors.New("network error")
	ErrServerRejected = errors.New("server rejected request")
	ErrMalformedReply = errors.New("malformed server response")

	// Form errors
	ErrUnknownForm = errors.New("unknown form")
)
