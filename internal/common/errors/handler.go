// internal/common/errors/handler.go
package errors

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors into HTTP responses with standardized bodies.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond normalizes err to a StandardError, logs it, and writes the JSON
// error body with the mapped HTTP status. The request is aborted so later
// handlers never run on a failed request.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	stdErr := h.normalizeError(err)
	status := GetHTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	c.AbortWithStatusJSON(status, gin.H{"error": stdErr})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        c.Request.Method,
		"path":          c.FullPath(),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if requestID := c.GetString("requestId"); requestID != "" {
		fields["requestId"] = requestID
	}

	// Client mistakes are expected traffic; only server-side codes escalate.
	if status >= 500 {
		h.logger.Error("Request failed", fields)
	} else {
		h.logger.Warn("Request rejected", fields)
	}
}
