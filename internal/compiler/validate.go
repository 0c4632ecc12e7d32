package compiler

import (
	"fmt"
	"strings"

	"github.com/tuubasoft/srimdb/internal/schema"
)

// Validation error codes (E100-E199)
const (
	ErrTableNameEmpty      = "E101" // table name is empty
	ErrTableNoFields       = "E102" // table has no columns
	ErrDuplicateTableName  = "E103" // same table declared twice
	ErrDuplicateFieldName  = "E104" // same column declared twice in one table
	ErrUnknownForeignTable = "E105" // foreign key points at an undeclared table
	ErrEmptyKey            = "E106" // identity key selects no columns
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled table set against cross-table rules.
// Returns all errors found (does not fail-fast).
func Validate(tables []schema.Table) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool, len(tables))
	for _, table := range tables {
		if strings.TrimSpace(table.Name()) == "" {
			errs = append(errs, ValidationError{
				Field:   "table",
				Message: "table name is required and must be non-empty",
				Code:    ErrTableNameEmpty,
			})
			continue
		}
		if declared[table.Name()] {
			errs = append(errs, ValidationError{
				Field:   "table." + table.Name(),
				Message: "table is declared more than once",
				Code:    ErrDuplicateTableName,
			})
		}
		declared[table.Name()] = true
	}

	for _, table := range tables {
		errs = append(errs, validateTable(table, declared)...)
	}
	return errs
}

func validateTable(table schema.Table, declared map[string]bool) []ValidationError {
	var errs []ValidationError
	prefix := "table." + table.Name()

	if table.NumFields() == 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".fields",
			Message: "table must declare at least one column",
			Code:    ErrTableNoFields,
		})
	}

	seen := make(map[string]bool, table.NumFields())
	for _, f := range table.Fields() {
		if seen[f.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".fields." + f.Name,
				Message: "column is declared more than once",
				Code:    ErrDuplicateFieldName,
			})
		}
		seen[f.Name] = true

		if fk, ok := f.Kind.(schema.ForeignKey); ok && !declared[fk.Table] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".fields." + f.Name,
				Message: fmt.Sprintf("foreign key references undeclared table %q", fk.Table),
				Code:    ErrUnknownForeignTable,
			})
		}
	}

	if table.NumFields() > 0 {
		anyKey := false
		for _, isKey := range table.KeyFieldMask() {
			anyKey = anyKey || isKey
		}
		if !anyKey {
			errs = append(errs, ValidationError{
				Field:   prefix + ".key",
				Message: "identity key must select at least one column",
				Code:    ErrEmptyKey,
			})
		}
	}

	return errs
}
