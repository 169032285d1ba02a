// Package errors provides standardized error handling for the clustering service.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request validation errors
const (
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
	ErrCodeTypeError      ErrorCode = "TYPE_ERROR"
	ErrCodeRangeError     ErrorCode = "RANGE_ERROR"
	ErrCodeBatchSizeError ErrorCode = "BATCH_SIZE_ERROR"

	ErrCodeInvalidJSON ErrorCode = "INVALID_JSON"

	ErrCodeArtifactLoadError  ErrorCode = "ARTIFACT_LOAD_ERROR"
	ErrCodeArtifactFetchError ErrorCode = "ARTIFACT_FETCH_ERROR"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSchemaMismatchError creates a non-retryable error for records whose keys
// do not match the feature schema. Missing and extra feature names are carried
// in the metadata so callers can report exactly what was wrong.
func NewSchemaMismatchError(missing, extra []string) *StandardError {
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing features: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("unknown features: %s", strings.Join(extra, ", ")))
	}
	return &StandardError{
		Code:      ErrCodeSchemaMismatch,
		Message:   "Record does not match the feature schema",
		Details:   strings.Join(parts, "; "),
		Retryable: false,
		Metadata: map[string]interface{}{
			"missing": missing,
			"extra":   extra,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewTypeError creates a non-retryable error for non-numeric feature values.
func NewTypeError(field string, value interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeTypeError,
		Message:   "Feature value is not numeric",
		Details:   fmt.Sprintf("field: %s, value: %v (%T)", field, value, value),
		Retryable: false,
		Metadata: map[string]interface{}{
			"field": field,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewRangeError creates a non-retryable error for ratio features outside [min, max].
func NewRangeError(field string, value, min, max float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRangeError,
		Message:   "Feature value is outside the allowed range",
		Details:   fmt.Sprintf("field: %s, value: %v, allowed: [%v, %v]", field, value, min, max),
		Retryable: false,
		Metadata: map[string]interface{}{
			"field": field,
			"min":   min,
			"max":   max,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewBatchSizeError creates a non-retryable error for batch requests whose
// record count falls outside [min, max]. Raised before any per-record work.
func NewBatchSizeError(got, min, max int) *StandardError {
	return &StandardError{
		Code:      ErrCodeBatchSizeError,
		Message:   fmt.Sprintf("Batch must contain between %d and %d records", min, max),
		Details:   fmt.Sprintf("got: %d", got),
		Retryable: false,
		Metadata: map[string]interface{}{
			"got": got,
			"min": min,
			"max": max,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJSONError creates a non-retryable error for unparseable request bodies.
func NewInvalidJSONError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJSON,
		Message:   "Request body is not valid JSON",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactLoadError creates a non-retryable artifact error. Startup must
// fail closed when this is returned: an inconsistent bundle never serves.
func NewArtifactLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactLoadError,
		Message:   "Model artifact is missing or inconsistent",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactFetchError creates a retryable error for transient failures while
// downloading artifact documents from blob storage.
func NewArtifactFetchError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactFetchError,
		Message:   "Failed to fetch model artifact",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Error Integration
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP status codes. Every
// request-level validation failure maps to 400, matching the service contract.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeSchemaMismatch:     http.StatusBadRequest,
	ErrCodeTypeError:          http.StatusBadRequest,
	ErrCodeRangeError:         http.StatusBadRequest,
	ErrCodeBatchSizeError:     http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeArtifactLoadError:  http.StatusInternalServerError,
	ErrCodeArtifactFetchError: http.StatusServiceUnavailable,
	ErrCodeInternalError:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
// Only transient artifact fetches are worth retrying; everything else is
// deterministic and retries would produce the same answer.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeArtifactFetchError:
		return 3
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "TYPE") ||
		strings.Contains(codeStr, "RANGE") || strings.Contains(codeStr, "BATCH"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ARTIFACT"):
		return "ARTIFACT"
	case strings.Contains(codeStr, "JSON"):
		return "REQUEST"
	default:
		return "OTHER"
	}
}
