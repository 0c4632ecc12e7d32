package query

import (
	"github.com/tuubasoft/srimdb/internal/value"
)

// Result is a materialized relational value: an ordered field list (the
// output schema) plus an ordered multiset of rows.
//
// INVARIANTS:
//   - Every row has exactly len(fields) values.
//   - Row order is the order produced by the operator chain.
//   - Duplicate rows are preserved unless Distinct is applied.
//
// All relational operations are pure: they read the receiver and return a
// freshly allocated result, never mutating shared state.
type Result struct {
	fields []Field
	rows   []value.Row
}

func newResult(fields []Field, rows []value.Row) *Result {
	return &Result{fields: fields, rows: rows}
}

// Fields returns a copy of the output schema.
func (r *Result) Fields() []Field {
	fields := make([]Field, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// FieldNames returns the ordered field names of the output schema.
func (r *Result) FieldNames() []string {
	return fieldNames(r.fields)
}

// Rows returns a copy of the ordered row list. The rows themselves are
// shared; values are immutable by contract.
func (r *Result) Rows() []value.Row {
	rows := make([]value.Row, len(r.rows))
	copy(rows, r.rows)
	return rows
}

// NumRows returns the row count.
func (r *Result) NumRows() int {
	return len(r.rows)
}

// matchField returns the column indices the reference matches: name
// equality, with the table qualifier narrowing the match when present.
func (r *Result) matchField(f Field) []int {
	var matching []int
	for i, stored := range r.fields {
		if f.Matches(stored) {
			matching = append(matching, i)
		}
	}
	return matching
}

// resolveField binds a reference to exactly one column index. Zero
// matches fail NO_SUCH_FIELD; more than one fails AMBIGUOUS_FIELD.
func (r *Result) resolveField(f Field) (int, error) {
	matching := r.matchField(f)
	switch len(matching) {
	case 0:
		return 0, newNoSuchField(f)
	case 1:
		return matching[0], nil
	default:
		return 0, newAmbiguousField(f)
	}
}

// sameFieldNames reports whether two results share the same ordered field
// name list. Set operators compare names only, not table qualifiers.
func (r *Result) sameFieldNames(other *Result) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if r.fields[i].Name != other.fields[i].Name {
			return false
		}
	}
	return true
}

// containsRow reports whether any row of the result is value-equal to the
// given row.
func (r *Result) containsRow(row value.Row) bool {
	for _, candidate := range r.rows {
		if candidate.Equal(row) {
			return true
		}
	}
	return false
}

// union concatenates the receiver's rows followed by the other result's
// rows, preserving order and duplicates.
func (r *Result) union(other *Result) (*Result, error) {
	if !r.sameFieldNames(other) {
		return nil, newDifferentFields(r.fields, other.fields)
	}
	rows := make([]value.Row, 0, len(r.rows)+len(other.rows))
	rows = append(rows, r.rows...)
	rows = append(rows, other.rows...)
	return newResult(r.Fields(), rows), nil
}

// intersection keeps each row of the receiver that is value-equal to SOME
// row of the other result. Membership is containment, not multiplicity
// matching: duplicate rows on the left are each tested independently
// against the full right-hand row list.
func (r *Result) intersection(other *Result) (*Result, error) {
	if !r.sameFieldNames(other) {
		return nil, newDifferentFields(r.fields, other.fields)
	}
	var rows []value.Row
	for _, row := range r.rows {
		if other.containsRow(row) {
			rows = append(rows, row)
		}
	}
	return newResult(r.Fields(), rows), nil
}

// difference keeps each row of the receiver that is value-equal to NO row
// of the other result. Same containment semantics as intersection.
func (r *Result) difference(other *Result) (*Result, error) {
	if !r.sameFieldNames(other) {
		return nil, newDifferentFields(r.fields, other.fields)
	}
	var rows []value.Row
	for _, row := range r.rows {
		if !other.containsRow(row) {
			rows = append(rows, row)
		}
	}
	return newResult(r.Fields(), rows), nil
}

// distinct removes every row that is value-equal to an earlier row,
// preserving first-occurrence order.
func (r *Result) distinct() *Result {
	var rows []value.Row
	for _, row := range r.rows {
		seen := false
		for _, kept := range rows {
			if kept.Equal(row) {
				seen = true
				break
			}
		}
		if !seen {
			rows = append(rows, row)
		}
	}
	return newResult(r.Fields(), rows)
}

// project builds a new result whose schema is the requested fields in the
// requested order and whose rows are the corresponding column picks.
func (r *Result) project(fields []Field) (*Result, error) {
	resultFields := make([]Field, 0, len(fields))
	columns := make([]int, 0, len(fields))

	for _, f := range fields {
		i, err := r.resolveField(f)
		if err != nil {
			return nil, err
		}
		resultFields = append(resultFields, f)
		columns = append(columns, i)
	}

	rows := make([]value.Row, len(r.rows))
	for i, row := range r.rows {
		rows[i] = row.PickColumns(columns)
	}
	return newResult(resultFields, rows), nil
}

// selectRows keeps the rows for which the condition reduces to true,
// resolving field references against each row in turn.
func (r *Result) selectRows(cond Condition, functions Registry) (*Result, error) {
	var rows []value.Row
	for _, row := range r.rows {
		keep, err := Test(cond, functions, NewRowContext(r, row))
		if err != nil {
			return nil, err
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return newResult(r.Fields(), rows), nil
}

// rename resolves `from` against the schema and replaces that field's
// identifier with an unqualified field named `to`. Rows are unchanged.
func (r *Result) rename(from Field, to string) (*Result, error) {
	i, err := r.resolveField(from)
	if err != nil {
		return nil, err
	}
	fields := r.Fields()
	fields[i] = NewField(to)
	return newResult(fields, r.Rows()), nil
}

// RowContext is the Resolver bound to one row of a result: a field
// reference resolves to the value in that row's matching column.
type RowContext struct {
	result *Result
	row    value.Row
}

// NewRowContext creates a per-row resolver for the given result and row.
func NewRowContext(result *Result, row value.Row) RowContext {
	return RowContext{result: result, row: row}
}

// Resolve binds the reference to a column of the result (NO_SUCH_FIELD /
// AMBIGUOUS_FIELD on failure) and returns that column's value in the
// bound row.
func (c RowContext) Resolve(f Field) (value.Value, error) {
	i, err := c.result.resolveField(f)
	if err != nil {
		return nil, err
	}
	return c.row[i], nil
}
