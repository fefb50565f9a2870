package domain

import (
	"errors"
	"strings"
)

// ErrValidation is the sentinel every ValidationError matches with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError describes malformed or missing input.
type ValidationError struct {
	Fields []string
}

// NewValidationError builds a ValidationError from one or more field messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Details()
}

// Details joins the field messages for the error envelope.
func (e *ValidationError) Details() string {
	return strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
