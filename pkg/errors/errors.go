package errors

import (
	"fmt"
)

// AppError represents an application error with a stable code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("code=%s, message=%s, details=%s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("code=%s, message=%s", e.Code, e.Message)
}

// Error codes used across the data core
const (
	CodeNetworkUnavailable     = "network_unavailable"
	CodeUploadRejected         = "upload_rejected"
	CodeDataFetch              = "data_fetch_failed"
	CodePersistenceWriteFailed = "persistence_write_failed"
)

// Common errors
var (
	ErrNetworkUnavailable = &AppError{Code: CodeNetworkUnavailable, Message: "Backend is not reachable"}
	ErrUploadRejected     = &AppError{Code: CodeUploadRejected, Message: "Upload rejected by backend"}
	ErrDataFetch          = &AppError{Code: CodeDataFetch, Message: "Failed to fetch data from backend"}
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithDetails adds details to an error
func WithDetails(err *AppError, details string) *AppError {
	return &AppError{
		Code:    err.Code,
		Message: err.Message,
		Details: details,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// Code returns the error code from an error, or empty string
func Code(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ""
}
