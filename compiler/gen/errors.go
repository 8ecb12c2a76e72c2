// Package gen turns a content-model snapshot into a typed Go client: type
// declarations, an HTTP access layer and a re-export entry point, validated
// by an in-memory type check before anything is written to disk.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates an input-shape error in the snapshot.
	ErrInvalidSchema = errors.New("typegen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("typegen: missing configuration")
	// ErrEmitFailed indicates an emitter failure.
	ErrEmitFailed = errors.New("typegen: emit failed")
	// ErrCompileFailed indicates the generated texts did not type-check.
	ErrCompileFailed = errors.New("typegen: compilation failed")
)

// SchemaError represents an input-shape error: a snapshot defect the
// generator cannot map onto declarations, such as two entities producing the
// same declaration identifier.
type SchemaError struct {
	UID     string // offending entity uid
	Field   string // attribute name, if applicable
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("typegen: schema error")
	if e.UID != "" {
		b.WriteString(" on ")
		b.WriteString(e.UID)
	}
	if e.Field != "" {
		b.WriteString(" attribute ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// NewSchemaError creates a new SchemaError.
func NewSchemaError(uid, field, message string, cause error) *SchemaError {
	return &SchemaError{UID: uid, Field: field, Message: message, Cause: cause}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("typegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("typegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// EmitError represents a failure while rendering one of the generated texts.
type EmitError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	var b strings.Builder
	b.WriteString("typegen: emit error")
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EmitError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for EmitError.
func (e *EmitError) Is(target error) bool { return target == ErrEmitFailed }

// NewEmitError creates a new EmitError.
func NewEmitError(file, message string, cause error) *EmitError {
	return &EmitError{File: file, Message: message, Cause: cause}
}

// CompileError reports that the generated texts failed the type check.
// Diagnostics are surfaced verbatim; a compile failure indicates a defect in
// the emitters or an unsupported schema shape, never a transient condition,
// so it is not retried and nothing is written.
type CompileError struct {
	Package     string // import path of the failing package
	Diagnostics []string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("typegen: compile error")
	if e.Package != "" {
		b.WriteString(" in ")
		b.WriteString(e.Package)
	}
	for _, d := range e.Diagnostics {
		b.WriteString("\n\t")
		b.WriteString(d)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for CompileError.
func (e *CompileError) Is(target error) bool { return target == ErrCompileFailed }

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsEmitError reports whether the error is an EmitError.
func IsEmitError(err error) bool {
	var ee *EmitError
	return errors.As(err, &ee)
}

// IsCompileError reports whether the error is a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
