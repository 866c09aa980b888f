package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates that a course or review supplied by a source
	// does not have the expected shape.
	ErrMalformedRecord = errors.New("malformed record")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation error with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// MalformedRecordError describes a single record a source handed over that
// cannot be ingested. Index is the record position within the source batch,
// or -1 when unknown.
type MalformedRecordError struct {
	Index   int
	Field   string
	Message string
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed record: field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("malformed record %d: field '%s': %s", e.Index, e.Field, e.Message)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
