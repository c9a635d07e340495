package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrOptimisticLock the record changed underneath a conditional write.
	ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")
	// ErrValidation a request field failed a business rule.
	ErrValidation = errors.New("validation failed")
	// ErrRemoteFailure the document store or identity service could not be reached.
	ErrRemoteFailure = errors.New("service temporarily unavailable, please retry")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RemoteError wraps a failed call to an external collaborator.
// It matches both ErrRemoteFailure and the underlying cause.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() []error { return []error{ErrRemoteFailure, e.Err} }

// Remote wraps err as a *RemoteError; nil stays nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}
