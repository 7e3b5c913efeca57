package backend

import (
	"errors"
	"fmt"
)

// BackendError represents a failure reported by the health-data backend
type BackendError struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *BackendError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("backend error %d: %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// Predefined error types
var (
	ErrBackendUnavailable = &BackendError{
		Code:    0,
		Message: "Backend is not reachable",
	}
	ErrDatasetNotFound = &BackendError{
		Code:    404,
		Message: "Dataset not found",
	}
	ErrInvalidResponse = &BackendError{
		Code:    0,
		Message: "Invalid response from backend",
	}
)

// UploadError is raised when the upload endpoint rejects a file or
// returns a payload without a dataset id. Body carries the raw response
// text for the failure banner.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upload failed (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upload failed (status %d)", e.StatusCode)
}

// NewBackendError creates a BackendError with custom details
func NewBackendError(code int, message string, details map[string]interface{}) *BackendError {
	return &BackendError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// IsConnectionError checks if the error is a connection-level failure
// rather than an HTTP-level rejection. Connection-level BackendErrors
// carry code 0.
func IsConnectionError(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code == 0 && !errors.Is(err, ErrInvalidResponse)
	}
	return false
}
