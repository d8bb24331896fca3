// Package errors provides error types and handling for Galaxy API operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a Galaxy API operation error with context about the
// operation that failed. It wraps the underlying transport or server error
// with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "createLibrary", "upload", "rename")
	Op string

	// Library is the Galaxy library ID or name (if applicable)
	Library string

	// Dataset is the Galaxy dataset ID (if applicable)
	Dataset string

	// Err is the underlying error from the HTTP transport or the server
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Library != "" && e.Dataset != "" {
		return fmt.Sprintf("galaxy.%s %s/%s: %v", e.Op, e.Library, e.Dataset, e.Err)
	}
	if e.Library != "" {
		return fmt.Sprintf("galaxy.%s library %s: %v", e.Op, e.Library, e.Err)
	}
	if e.Dataset != "" {
		return fmt.Sprintf("galaxy.%s dataset %s: %v", e.Op, e.Dataset, e.Err)
	}
	return fmt.Sprintf("galaxy.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithLibrary adds library context to an existing error.
func (e *Error) WithLibrary(library string) *Error {
	e.Library = library
	return e
}

// WithDataset adds dataset context to an existing error.
func (e *Error) WithDataset(dataset string) *Error {
	e.Dataset = dataset
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewLibraryError creates a new Error with library context.
func NewLibraryError(op, library string, err error) *Error {
	return &Error{
		Op:      op,
		Library: library,
		Err:     err,
	}
}

// NewDatasetError creates a new Error with library and dataset context.
func NewDatasetError(op, library, dataset string, err error) *Error {
	return &Error{
		Op:      op,
		Library: library,
		Dataset: dataset,
		Err:     err,
	}
}

// Sentinel errors for common Galaxy API operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrUnauthorized indicates the API key was rejected or missing
	ErrUnauthorized = errors.New("galaxy: unauthorized")

	// ErrNotFound indicates the requested library or dataset does not exist
	ErrNotFound = errors.New("galaxy: not found")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("galaxy: invalid input")

	// ErrTooManyRequests indicates the server is throttling requests
	ErrTooManyRequests = errors.New("galaxy: too many requests")

	// ErrServer indicates a server-side failure (HTTP 5xx)
	ErrServer = errors.New("galaxy: server error")

	// ErrConnection indicates a transport-level failure
	ErrConnection = errors.New("galaxy: connection error")

	// ErrDatasetFailed indicates server-side dataset processing ended in a
	// terminal failure state
	ErrDatasetFailed = errors.New("galaxy: dataset processing failed")

	// ErrPollTimeout indicates a dataset did not reach the ok state before
	// the polling deadline
	ErrPollTimeout = errors.New("galaxy: timed out waiting for dataset")

	// ErrEmptyResponse indicates the server returned no datasets for an upload
	ErrEmptyResponse = errors.New("galaxy: empty upload response")
)

// IsUnauthorized checks if an error indicates the API key was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if an error indicates a missing library or dataset.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDatasetFailed checks if an error indicates terminal dataset failure.
func IsDatasetFailed(err error) bool {
	return errors.Is(err, ErrDatasetFailed)
}

// IsPollTimeout checks if an error indicates the readiness poll timed out.
func IsPollTimeout(err error) bool {
	return errors.Is(err, ErrPollTimeout)
}

// IsRetryable reports whether the error is worth retrying at the HTTP level.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTooManyRequests) ||
		errors.Is(err, ErrServer) ||
		errors.Is(err, ErrConnection)
}
