package engine

import (
	"errors"
	"fmt"
)

// ApplyError represents a mutation failure. Mutations are atomic: a
// failed Apply leaves the database unchanged.
type ApplyError struct {
	// Code identifies the error category.
	Code ApplyErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the affected table.
	Table string
}

// ApplyErrorCode categorizes mutation errors.
type ApplyErrorCode string

const (
	// ErrCodeNoSuchTable indicates the target table does not exist.
	ErrCodeNoSuchTable ApplyErrorCode = "NO_SUCH_TABLE"

	// ErrCodeAddCannotModify indicates a CreateTable tried to change an
	// existing table's declaration.
	ErrCodeAddCannotModify ApplyErrorCode = "ADD_CANNOT_MODIFY"

	// ErrCodeSchemaViolation indicates a row does not satisfy the
	// table's declared schema.
	ErrCodeSchemaViolation ApplyErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeNoSuchRow indicates a RemoveRow matched no stored row.
	ErrCodeNoSuchRow ApplyErrorCode = "NO_SUCH_ROW"
)

// Error implements the error interface.
func (e *ApplyError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ApplyCodeOf extracts the mutation error code from an error chain.
// Returns "" if no *ApplyError is present.
func ApplyCodeOf(err error) ApplyErrorCode {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func newNoSuchTable(name string) *ApplyError {
	return &ApplyError{
		Code:    ErrCodeNoSuchTable,
		Message: "table does not exist",
		Table:   name,
	}
}

func newAddCannotModify(name string) *ApplyError {
	return &ApplyError{
		Code:    ErrCodeAddCannotModify,
		Message: "table already exists with a different declaration",
		Table:   name,
	}
}

func newSchemaViolation(name, message string) *ApplyError {
	return &ApplyError{
		Code:    ErrCodeSchemaViolation,
		Message: message,
		Table:   name,
	}
}

func newNoSuchRow(name string) *ApplyError {
	return &ApplyError{
		Code:    ErrCodeNoSuchRow,
		Message: "no stored row is value-equal to the given row",
		Table:   name,
	}
}
