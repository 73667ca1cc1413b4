// Package common defines sentinel errors, typed errors and small helpers
// shared by the travel wishlist server layers. Callers should use errors.Is
// and errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. ErrInvalidToken covers unknown, revoked and expired
	// refresh tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// Startup errors.
	ErrConfiguration = errors.New("configuration error")

	// Destination-specific errors.
	ErrNoDestinations    = errors.New("no destinations to export")
	ErrUnsupportedFormat = errors.New("unsupported format, use csv or json")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// FieldErrors converts per-field errors into a ValidationError, skipping nil
// entries. It returns nil when no field failed.
func FieldErrors(errs map[string]error) error {
	fields := make(map[string]string, len(errs))
	for k, err := range errs {
		if err != nil {
			fields[k] = err.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// ConfigurationError reports a missing or malformed setting. It is fatal at
// startup and never produced per request.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
