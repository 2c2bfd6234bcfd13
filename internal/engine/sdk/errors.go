package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine failures.
var (
	ErrEngineNotFound       = errors.New("engine not found")
	ErrEngineAlreadyExists  = errors.New("engine already exists")
	ErrEngineNotInitialized = errors.New("engine not initialized")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrEngineShutdown       = errors.New("engine has been shut down")
	ErrVersionIncompatible  = errors.New("incompatible version")
	ErrTimeout              = errors.New("operation timed out")
	ErrCircuitOpen          = errors.New("circuit breaker open")
	ErrWrongEngineType      = errors.New("engine has the wrong type")
)

// EngineError wraps an error with the engine and operation that produced it.
type EngineError struct {
	EngineID  string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("engine %s: %s: %v", e.EngineID, e.Operation, e.Err)
	}
	return fmt.Sprintf("engine %s: %v", e.EngineID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates an EngineError.
func NewEngineError(engineID, operation string, err error) *EngineError {
	return &EngineError{EngineID: engineID, Operation: operation, Err: err}
}

// ConfigValidationError reports a rejected configuration value.
type ConfigValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ConfigValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("config validation failed for %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("config validation failed for %q: %s", e.Field, e.Message)
}

// Is matches ErrInvalidConfig.
func (e *ConfigValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigValidationError creates a ConfigValidationError.
func NewConfigValidationError(field, message string, value any) *ConfigValidationError {
	return &ConfigValidationError{Field: field, Message: message, Value: value}
}

// LoadError is returned when a plugin binary cannot be started.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load plugin %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load plugin %q: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a LoadError.
func NewLoadError(path, reason string, err error) *LoadError {
	return &LoadError{Path: path, Reason: reason, Err: err}
}

// ExecutionError is a failed engine call.
type ExecutionError struct {
	EngineID  string
	RequestID string
	Operation string
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error in %s (request %s, operation %s): %v",
		e.EngineID, e.RequestID, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError creates an ExecutionError.
func NewExecutionError(engineID, requestID, operation string, err error, retryable bool) *ExecutionError {
	return &ExecutionError{
		EngineID:  engineID,
		RequestID: requestID,
		Operation: operation,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable reports whether err is a retryable ExecutionError.
func IsRetryable(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr) && execErr.Retryable
}

// IsEngineNotFound reports whether err is ErrEngineNotFound.
func IsEngineNotFound(err error) bool {
	return errors.Is(err, ErrEngineNotFound)
}

// IsConfigInvalid reports whether err is a configuration failure.
func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsCircuitOpen reports whether err came from an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
