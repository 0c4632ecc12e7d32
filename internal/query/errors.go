package query

import (
	"errors"
	"fmt"

	"github.com/tuubasoft/srimdb/internal/value"
)

// ErrorCode categorizes query evaluation errors.
type ErrorCode string

const (
	// ErrCodeIncompatibleTypes indicates value coercion or unification
	// failed (bad cast, binop over unrelated kinds, or field-kind cast).
	ErrCodeIncompatibleTypes ErrorCode = "INCOMPATIBLE_TYPES"

	// ErrCodeDifferentFields indicates a schema mismatch between the
	// operands of a binary set operator.
	ErrCodeDifferentFields ErrorCode = "DIFFERENT_FIELDS"

	// ErrCodeNotBoolean indicates a condition reduced to a non-boolean
	// value.
	ErrCodeNotBoolean ErrorCode = "NOT_BOOLEAN"

	// ErrCodeNotEnoughArguments indicates a function received fewer than
	// its minimum arity.
	ErrCodeNotEnoughArguments ErrorCode = "NOT_ENOUGH_ARGUMENTS"

	// ErrCodeNoSuchTable indicates the named table is absent from the
	// catalog.
	ErrCodeNoSuchTable ErrorCode = "NO_SUCH_TABLE"

	// ErrCodeNoSuchField indicates a field reference matched no column.
	ErrCodeNoSuchField ErrorCode = "NO_SUCH_FIELD"

	// ErrCodeAmbiguousField indicates a field reference matched more than
	// one column.
	ErrCodeAmbiguousField ErrorCode = "AMBIGUOUS_FIELD"

	// ErrCodeNoSuchFunction indicates a call targeted an unregistered
	// function.
	ErrCodeNoSuchFunction ErrorCode = "NO_SUCH_FUNCTION"

	// ErrCodeUnsupportedFunctionKind indicates an attempt to apply a
	// function kind the engine cannot evaluate (composed functions).
	ErrCodeUnsupportedFunctionKind ErrorCode = "UNSUPPORTED_FUNCTION_KIND"

	// ErrCodeUnresolvedField indicates a call was applied while still
	// containing a field-reference argument. This is a precondition
	// violation by the caller, surfaced as a structured error so the
	// engine stays embeddable.
	ErrCodeUnresolvedField ErrorCode = "UNRESOLVED_FIELD"
)

// Error is the structured error type for query evaluation. Every failure
// path of Execute produces an *Error; evaluation short-circuits on the
// first error and yields no partial result.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the affected table (for table resolution errors).
	Table string

	// Field identifies the affected field reference (for field
	// resolution errors).
	Field Field

	// Function names the affected function (for call errors).
	Function string

	// MinArgs is the minimum arity (for arity errors).
	MinArgs int

	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Table != "":
		return fmt.Sprintf("%s (table=%s)", msg, e.Table)
	case e.Field != (Field{}):
		return fmt.Sprintf("%s (field=%s)", msg, e.Field)
	case e.Function != "":
		return fmt.Sprintf("%s (function=%s)", msg, e.Function)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the error code from an error chain. Returns "" if no
// *Error is present.
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsNoSuchField reports whether the error chain contains a NO_SUCH_FIELD
// error.
func IsNoSuchField(err error) bool {
	return CodeOf(err) == ErrCodeNoSuchField
}

// IsAmbiguousField reports whether the error chain contains an
// AMBIGUOUS_FIELD error.
func IsAmbiguousField(err error) bool {
	return CodeOf(err) == ErrCodeAmbiguousField
}

func newIncompatibleTypes(cause error) *Error {
	return &Error{
		Code:    ErrCodeIncompatibleTypes,
		Message: cause.Error(),
		Err:     cause,
	}
}

func newDifferentFields(a, b []Field) *Error {
	return &Error{
		Code:    ErrCodeDifferentFields,
		Message: fmt.Sprintf("set operands have different fields: %v vs %v", fieldNames(a), fieldNames(b)),
	}
}

func newNotBoolean(kind value.Kind) *Error {
	return &Error{
		Code:    ErrCodeNotBoolean,
		Message: fmt.Sprintf("condition reduced to %s, expected boolean", kind),
	}
}

func newNotEnoughArguments(min int) *Error {
	return &Error{
		Code:    ErrCodeNotEnoughArguments,
		Message: fmt.Sprintf("at least %d argument(s) required", min),
		MinArgs: min,
	}
}

func newNoSuchTable(name string) *Error {
	return &Error{
		Code:    ErrCodeNoSuchTable,
		Message: "table does not exist",
		Table:   name,
	}
}

func newNoSuchField(f Field) *Error {
	return &Error{
		Code:    ErrCodeNoSuchField,
		Message: "field matches no column",
		Field:   f,
	}
}

func newAmbiguousField(f Field) *Error {
	return &Error{
		Code:    ErrCodeAmbiguousField,
		Message: "field matches more than one column",
		Field:   f,
	}
}

func newNoSuchFunction(name string) *Error {
	return &Error{
		Code:     ErrCodeNoSuchFunction,
		Message:  "function is not registered",
		Function: name,
	}
}

func newUnresolvedField(target string, f Field) *Error {
	return &Error{
		Code:     ErrCodeUnresolvedField,
		Message:  "call applied with unresolved field argument",
		Function: target,
		Field:    f,
	}
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
