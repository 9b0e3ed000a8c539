// Package errors provides the standardized error taxonomy for the itinerary
// generation pipeline and its HTTP boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

// ErrorCode is a machine-readable classification of a failure.
type ErrorCode string

const (
	// Startup / configuration
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"

	// Request input
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// Generation pipeline
	ErrCodeUpstreamEmpty     ErrorCode = "UPSTREAM_EMPTY"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeMissingFields     ErrorCode = "MISSING_FIELDS"
	ErrCodeMissingDayFields  ErrorCode = "MISSING_DAY_FIELDS"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"

	// Data providers
	ErrCodeWeatherUnavailable ErrorCode = "WEATHER_UNAVAILABLE"

	// Catch-all
	ErrCodeUnexpected ErrorCode = "UNEXPECTED_ERROR"
)

// ==========================
// 2. StandardError
// ==========================

// StandardError is a structured application error carried across the pipeline.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, or ErrCodeUnexpected when err is not
// a StandardError.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ErrCodeUnexpected
}

// IsRetryable reports whether err is worth another generation attempt.
func IsRetryable(err error) bool {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Retryable
	}
	return false
}

// ==========================
// 3. Constructors
// ==========================

// NewConfigMissingError reports absent required credentials, fatal at startup.
func NewConfigMissingError(vars []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMissing,
		Message:   "Missing required environment variables",
		Details:   strings.Join(vars, ", "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError reports malformed request input.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid request input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports a resource that does not exist.
func NewNotFoundError(resource string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamEmptyError reports an external call that returned no usable content.
func NewUpstreamEmptyError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamEmpty,
		Message:   fmt.Sprintf("Service %q returned no content", service),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError reports text that could not be repaired into JSON.
func NewMalformedResponseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Response could not be parsed as JSON after cleanup",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldsError reports absent top-level fields in generated data.
func NewMissingFieldsError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingFields,
		Message:   "Missing required fields in itinerary data",
		Details:   strings.Join(fields, ", "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingDayFieldsError reports absent fields on a specific daily entry.
func NewMissingDayFieldsError(dayIndex int, fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingDayFields,
		Message:   fmt.Sprintf("Missing required fields in day %d", dayIndex),
		Details:   strings.Join(fields, ", "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError reports a transient external generation failure.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Generation call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWeatherUnavailableError reports that no forecast could be fetched.
func NewWeatherUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWeatherUnavailable,
		Message:   "Failed to fetch weather data",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError wraps an uncategorized error, preserving its message.
func NewUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpected,
		Message:   "An unexpected error occurred",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Boundary Mapping
// ==========================

// HTTPStatus maps an error code to the status returned by the API boundary.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMissingFields, ErrCodeMissingDayFields, ErrCodeMalformedResponse:
		return http.StatusUnprocessableEntity
	case ErrCodeWeatherUnavailable, ErrCodeConfigMissing:
		return http.StatusServiceUnavailable
	case ErrCodeUpstreamEmpty, ErrCodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
