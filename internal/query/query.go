// Package query implements the relational-algebra query core: the
// recursive operator tree, its materialized result representation, the
// function-call resolution machinery, and condition evaluation.
//
// Evaluation is fully synchronous, single-threaded, and pure: Execute
// reads through an immutable catalog snapshot, performs no mutation and
// no I/O, and produces freshly allocated results. Errors short-circuit;
// there is no partial result and no retry. Hosts that interleave queries
// with mutation are responsible for keeping the catalog stable for the
// duration of one Execute call.
package query

import (
	"fmt"

	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/value"
)

// Catalog is the read-only environment one query evaluation runs against:
// schema lookup, row snapshots, and the function registry. The engine's
// database implements it; tests may substitute fixtures.
type Catalog interface {
	// Table returns the named table's schema.
	Table(name string) (schema.Table, bool)

	// AllRows returns the current row snapshot of the named table.
	AllRows(name string) ([]value.Row, bool)

	// Functions returns the registry snapshot used for this evaluation.
	Functions() Registry
}

// Query is a sealed interface over the operator tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern enables exhaustive type switches in Execute.
//
// Operators:
//   - Empty: zero-row result with a given schema
//   - Table: scan of a stored table
//   - FromValue, FromFunctionCall: one-row computed literals
//   - Union, Intersection, Difference: set operators over matching schemas
//   - Distinct: duplicate removal
//   - Project: column selection and reordering
//   - Select: row filtering by condition
//   - Rename: single-field schema renaming
//
// Cross products and joins are intentionally absent.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Empty produces a zero-row result whose schema is the given unqualified
// field names.
type Empty struct {
	Fields []string
}

func (Empty) queryNode() {}

// Table materializes all current rows of the named table, with every
// field reference qualified by the table name. Fails NO_SUCH_TABLE if the
// table is absent.
type Table struct {
	Name string
}

func (Table) queryNode() {}

// FromValue produces a one-row, one-column result binding a literal. The
// value is cast to the declared column kind when bound.
type FromValue struct {
	Field schema.TableField
	Value value.Value
}

func (FromValue) queryNode() {}

// FromFunctionCall produces a one-row, one-column result from a call.
// The call is resolved without row context, so any field reference in it
// fails, then applied, and the result is cast to the declared column
// kind.
type FromFunctionCall struct {
	Field schema.TableField
	Call  *FunctionCall
}

func (FromFunctionCall) queryNode() {}

// Union concatenates the left result's rows then the right result's rows,
// preserving order and duplicates. Fails DIFFERENT_FIELDS when the field
// name lists differ.
type Union struct {
	Left  Query
	Right Query
}

func (Union) queryNode() {}

// Intersection keeps each left row that is value-equal to some right row.
// Containment semantics: duplicates on the left are tested independently;
// multiplicities on the right are irrelevant.
type Intersection struct {
	Left  Query
	Right Query
}

func (Intersection) queryNode() {}

// Difference keeps each left row that is value-equal to no right row.
// Same containment semantics as Intersection.
type Difference struct {
	Left  Query
	Right Query
}

func (Difference) queryNode() {}

// Distinct removes rows equal to an earlier row, preserving
// first-occurrence order.
type Distinct struct {
	From Query
}

func (Distinct) queryNode() {}

// Project picks the requested fields, in the requested order, out of the
// subquery's result.
type Project struct {
	Fields []Field
	From   Query
}

func (Project) queryNode() {}

// Select keeps the subquery's rows for which the condition reduces to
// true, resolving field references per row.
type Select struct {
	Where Condition
	From  Query
}

func (Select) queryNode() {}

// Rename replaces one field's identifier with an unqualified field of the
// given name. Rows are unchanged.
type Rename struct {
	From Field
	To   string
	In   Query
}

func (Rename) queryNode() {}

// Execute recursively evaluates an operator tree against a read-only
// catalog, producing a materialized result or the first error
// encountered.
func Execute(q Query, catalog Catalog) (*Result, error) {
	switch node := q.(type) {
	case Empty:
		fields := make([]Field, len(node.Fields))
		for i, name := range node.Fields {
			fields[i] = NewField(name)
		}
		return newResult(fields, nil), nil

	case Table:
		return executeTableScan(node.Name, catalog)

	case FromValue:
		v, err := value.CastToFieldKind(node.Value, node.Field.Kind)
		if err != nil {
			return nil, newIncompatibleTypes(err)
		}
		return singleton(node.Field.Name, v), nil

	case FromFunctionCall:
		resolved, err := node.Call.ResolveArgs(NoRowContext{})
		if err != nil {
			return nil, err
		}
		v, err := resolved.Apply(catalog.Functions())
		if err != nil {
			return nil, err
		}
		cast, err := value.CastToFieldKind(v, node.Field.Kind)
		if err != nil {
			return nil, newIncompatibleTypes(err)
		}
		return singleton(node.Field.Name, cast), nil

	case Union:
		left, right, err := executePair(node.Left, node.Right, catalog)
		if err != nil {
			return nil, err
		}
		return left.union(right)

	case Intersection:
		left, right, err := executePair(node.Left, node.Right, catalog)
		if err != nil {
			return nil, err
		}
		return left.intersection(right)

	case Difference:
		left, right, err := executePair(node.Left, node.Right, catalog)
		if err != nil {
			return nil, err
		}
		return left.difference(right)

	case Distinct:
		from, err := Execute(node.From, catalog)
		if err != nil {
			return nil, err
		}
		return from.distinct(), nil

	case Project:
		from, err := Execute(node.From, catalog)
		if err != nil {
			return nil, err
		}
		return from.project(node.Fields)

	case Select:
		from, err := Execute(node.From, catalog)
		if err != nil {
			return nil, err
		}
		return from.selectRows(node.Where, catalog.Functions())

	case Rename:
		in, err := Execute(node.In, catalog)
		if err != nil {
			return nil, err
		}
		return in.rename(node.From, node.To)

	default:
		panic(fmt.Sprintf("unknown query operator: %T", q))
	}
}

func executeTableScan(name string, catalog Catalog) (*Result, error) {
	table, ok := catalog.Table(name)
	if !ok {
		return nil, newNoSuchTable(name)
	}

	tableFields := table.Fields()
	fields := make([]Field, len(tableFields))
	for i, tf := range tableFields {
		fields[i] = NewField(tf.Name).FromTable(name)
	}

	rows, ok := catalog.AllRows(name)
	if !ok {
		return nil, newNoSuchTable(name)
	}
	return newResult(fields, rows), nil
}

func executePair(left, right Query, catalog Catalog) (*Result, *Result, error) {
	l, err := Execute(left, catalog)
	if err != nil {
		return nil, nil, err
	}
	r, err := Execute(right, catalog)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func singleton(fieldName string, v value.Value) *Result {
	return newResult(
		[]Field{NewField(fieldName)},
		[]value.Row{value.NewRow(v)},
	)
}
