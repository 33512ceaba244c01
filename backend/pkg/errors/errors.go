package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeProvider represents emotion/LLM provider errors
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeTranscription represents speech-to-text errors
	ErrorTypeTranscription ErrorType = "transcription"
	// ErrorTypeStorage represents database errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeInput represents request validation errors
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType returns the error category. Types embedding BaseError inherit
// it, so classification sees through the concrete wrappers.
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Provider Errors

// ErrProviderFailed is returned when a provider call fails after retries
type ErrProviderFailed struct {
	*BaseError
	Provider  string
	Attempts  int
	Retryable bool
}

func NewProviderFailed(provider string, attempts int, retryable bool, err error) *ErrProviderFailed {
	return &ErrProviderFailed{
		BaseError: NewBaseError(ErrorTypeProvider, fmt.Sprintf("%s request failed after %d attempts", provider, attempts), err),
		Provider:  provider,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// ErrProviderBadResponse is returned when a provider responds with an
// unexpected status or an unparseable body
type ErrProviderBadResponse struct {
	*BaseError
	Provider string
	Status   int
}

func NewProviderBadResponse(provider string, status int, err error) *ErrProviderBadResponse {
	return &ErrProviderBadResponse{
		BaseError: NewBaseError(ErrorTypeProvider, fmt.Sprintf("%s returned status %d", provider, status), err),
		Provider:  provider,
		Status:    status,
	}
}

// ErrNoEmotionDetected is returned when a provider answers successfully
// but reports no usable emotion label
var ErrNoEmotionDetected = NewBaseError(ErrorTypeProvider, "no emotion detected in response", nil)

// Transcription Errors

// ErrTranscriptionFailed is returned when speech-to-text fails
type ErrTranscriptionFailed struct {
	*BaseError
	Service string
}

func NewTranscriptionFailed(service string, err error) *ErrTranscriptionFailed {
	return &ErrTranscriptionFailed{
		BaseError: NewBaseError(ErrorTypeTranscription, "transcription failed", err),
		Service:   service,
	}
}

// ErrEmptyTranscript is returned when transcription succeeds but yields no text
var ErrEmptyTranscript = NewBaseError(ErrorTypeTranscription, "transcript is empty", nil)

// Storage Errors

// ErrStorageConnectionFailed is returned when the database cannot be reached
type ErrStorageConnectionFailed struct {
	*BaseError
	DSN string
}

func NewStorageConnectionFailed(dsn string, err error) *ErrStorageConnectionFailed {
	return &ErrStorageConnectionFailed{
		BaseError: NewBaseError(ErrorTypeStorage, "failed to connect to database", err),
		DSN:       dsn,
	}
}

// ErrStorageQueryFailed is returned when a database operation fails
type ErrStorageQueryFailed struct {
	*BaseError
	Op string
}

func NewStorageQueryFailed(op string, err error) *ErrStorageQueryFailed {
	return &ErrStorageQueryFailed{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("query failed: %s", op), err),
		Op:        op,
	}
}

// Input Errors

// ErrInvalidInput is returned when a request field fails validation
type ErrInvalidInput struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidInput(field, reason string) *ErrInvalidInput {
	return &ErrInvalidInput{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid input: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), nil),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if typed, ok := err.(interface{ ErrorType() ErrorType }); ok {
		return typed.ErrorType() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	// Provider errors carry their own retryability
	var provErr *ErrProviderFailed
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	// An empty transcript is a property of the audio, not a service fault
	if errors.Is(err, ErrEmptyTranscript) {
		return false
	}
	// Other transcription failures are usually transient service hiccups
	if IsErrorType(err, ErrorTypeTranscription) {
		return true
	}
	// Storage connection errors are retryable
	if IsErrorType(err, ErrorTypeStorage) {
		return true
	}
	return false
}
