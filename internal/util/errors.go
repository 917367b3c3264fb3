// internal/util/errors.go
package util

import (
	"errors"
	"sort"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEntry = errors.New("duplicate entry") // Unique constraint violated in storage
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// ValidationError carries one message per offending request field.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field has been recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
