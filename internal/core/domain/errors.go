package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidState = errors.New("task is in a terminal state")
	ErrValidation   = errors.New("validation failed")

	ErrMissingToken = errors.New("missing bearer token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrKeyNotFound  = errors.New("signing key not found")
	ErrForbidden    = errors.New("owner mismatch")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError carries field level failures. Values are message keys
// rendered by the transport layer.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msgKey string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msgKey
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
