// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package input

import (
	"fmt"
	"strings"
)

// DecodeError is returned when text shaped like a record is neither valid
// JSON nor a valid YAML flow mapping.
type DecodeError struct {
	Input string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding record %q: %v", e.Input, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// SchemaError lists the schema violations of a decoded record.
type SchemaError struct {
	Field  string
	Errors []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "record does not provide %q:", e.Field)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// LoadError is returned when an input file cannot be read or is incomplete.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("loading input %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("loading input %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
