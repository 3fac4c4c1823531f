package allocation

import (
	"errors"
	"fmt"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// ValidationError marks a recoverable operator mistake: the session
// stays editable, nothing is written, and the message is shown as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// newValidationError builds a ValidationError with the given message.
func newValidationError(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError reports that a selected resource is no longer free at
// commit time. Like a ValidationError, it leaves the session editable.
type ConflictError struct {
	Resource model.ResourceRef
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("%s is no longer available", e.Resource)
}

// NewConflictError builds a ConflictError for the resource.
func NewConflictError(res model.ResourceRef, reason string) error {
	return &ConflictError{Resource: res, Reason: reason}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
