// Package compiler turns CUE schema declarations into table
// declarations.
//
// A schema file declares tables under a top-level `table` struct. Field
// types are schema keywords, foreign keys point at another table with
// the "->" prefix, and `key` narrows the identity key:
//
//	table: Companies: {
//		fields: {
//			id:   "u64"
//			name: "text"
//		}
//		key: ["id"]
//	}
//
// All identifiers pass through NFC normalization at the compile
// boundary so that visually identical names compare equal regardless of
// the encoder that produced the source file.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/tuubasoft/srimdb/internal/schema"
)

// CompileTables parses every table declared under the `table` struct of
// a CUE value, in declaration order.
func CompileTables(v cue.Value) ([]schema.Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   "table",
			Message: "no table declarations found",
			Pos:     v.Pos(),
		}
	}

	iter, err := tableVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tables []schema.Table
	for iter.Next() {
		table, err := CompileTable(norm.NFC.String(iter.Label()), iter.Value())
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// CompileTable parses a single table declaration. The name comes from
// the enclosing struct label; the value holds `fields` and an optional
// `key` list.
func CompileTable(name string, v cue.Value) (schema.Table, error) {
	if err := v.Err(); err != nil {
		return schema.Table{}, formatCUEError(err)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return schema.Table{}, &CompileError{
			Field:   fmt.Sprintf("table.%s.fields", name),
			Message: "fields are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return schema.Table{}, formatCUEError(err)
	}

	var fields []schema.TableField
	for iter.Next() {
		fieldName := norm.NFC.String(iter.Label())
		keyword, err := iter.Value().String()
		if err != nil {
			return schema.Table{}, formatCUEError(err)
		}
		kind, err := schema.ParseKind(norm.NFC.String(keyword))
		if err != nil {
			return schema.Table{}, &CompileError{
				Field:   fmt.Sprintf("table.%s.fields.%s", name, fieldName),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		fields = append(fields, schema.NewTableField(fieldName, kind))
	}

	table := schema.NewTable(name, fields)

	keyVal := v.LookupPath(cue.ParsePath("key"))
	if keyVal.Exists() {
		keyIter, err := keyVal.List()
		if err != nil {
			return schema.Table{}, formatCUEError(err)
		}
		var keyNames []string
		for keyIter.Next() {
			keyName, err := keyIter.Value().String()
			if err != nil {
				return schema.Table{}, formatCUEError(err)
			}
			keyNames = append(keyNames, norm.NFC.String(keyName))
		}
		table, err = table.WithKeyFields(keyNames...)
		if err != nil {
			return schema.Table{}, &CompileError{
				Field:   fmt.Sprintf("table.%s.key", name),
				Message: err.Error(),
				Pos:     keyVal.Pos(),
			}
		}
	}

	return table, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
