// Package errors provides the standardized error taxonomy for the job board API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeEmployerNotVerified    ErrorCode = "EMPLOYER_NOT_VERIFIED"
	ErrCodeResourceNotFound       ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidStatusChange    ErrorCode = "INVALID_STATUS_CHANGE"

	ErrCodePricingConfigInvalid ErrorCode = "PRICING_CONFIG_INVALID"

	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheFailed         ErrorCode = "CACHE_FAILED"
)

// FieldError identifies a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fields    []FieldError           `json:"fields,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err into a *StandardError when possible.
func AsStandardError(err error) (*StandardError, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable validation error carrying
// per-field messages for the HTTP 400 response body.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationRequired,
		Message:   "Authentication required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmployerNotVerifiedError creates a non-retryable authorization error.
func NewEmployerNotVerifiedError(employerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmployerNotVerified,
		Message:   "Employer account is not verified",
		Details:   fmt.Sprintf("employerId: %s", employerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable not-found error. Ownership
// failures use this same constructor so existence is never leaked.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusChangeError creates a non-retryable state machine error.
func NewInvalidStatusChangeError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatusChange,
		Message:   "Status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPricingConfigError creates a non-retryable pricing configuration error.
// An unpriceable draft must fail job creation, never default silently.
func NewPricingConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePricingConfigInvalid,
		Message:   "No base price configured for posting",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable database error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search backend error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError creates a retryable cache error.
func NewCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// httpStatusMapping maps internal error codes to HTTP status codes.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:       http.StatusBadRequest,
	ErrCodeAuthenticationRequired: http.StatusUnauthorized,
	ErrCodeEmployerNotVerified:    http.StatusForbidden,
	ErrCodeResourceNotFound:       http.StatusNotFound,
	ErrCodeInvalidStatusChange:    http.StatusBadRequest,
	ErrCodePricingConfigInvalid:   http.StatusInternalServerError,
	ErrCodeDatabaseQueryFailed:    http.StatusInternalServerError,
	ErrCodeSearchQueryFailed:      http.StatusInternalServerError,
	ErrCodeCacheFailed:            http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, exists := httpStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsNotFound reports whether err is a RESOURCE_NOT_FOUND error.
func IsNotFound(err error) bool {
	se, ok := AsStandardError(err)
	return ok && se.Code == ErrCodeResourceNotFound
}

// IsRetryable reports whether err carries a retryable error code.
func IsRetryable(err error) bool {
	se, ok := AsStandardError(err)
	return ok && se.Retryable
}
