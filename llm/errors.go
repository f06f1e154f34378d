package llm

import (
	"errors"
)

// Error types for classifying transport failures.

// TransientError represents a temporary failure that may succeed on retry:
// rate limiting, server-side faults, and network errors.
type TransientError struct {
	err    error
	status int
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent failure that will not self-resolve
// within the same operation: client errors, auth failures, malformed
// responses.
type FatalError struct {
	err    error
	status int
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient returns true if the error is transient and should be retried.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal returns true if the error is fatal and should not be retried.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// HTTPStatus returns the HTTP status code carried by a classified error,
// or 0 if the error did not originate from an HTTP response.
func HTTPStatus(err error) int {
	var transient *TransientError
	if errors.As(err, &transient) {
		return transient.status
	}
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal.status
	}
	return 0
}
