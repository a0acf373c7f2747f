package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrValidation    = errors.New("validation failed")
)

// NotFoundError reports a missing entry id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Entry %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrEntryNotFound }

// FieldError is a single per-field diagnostic.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field violation found in one payload.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
