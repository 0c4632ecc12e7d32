package engine

import (
	"fmt"

	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/value"
)

// Delta is a sealed interface over the database mutations: table
// creation and removal, row insertion and removal. Apply is the only
// mutation path; the query core never mutates.
type Delta interface {
	delta() // Marker method - seals interface to this package
}

// CreateTable registers a table declaration. Re-creating a table with an
// identical declaration is a no-op; re-creating with a different
// declaration fails ADD_CANNOT_MODIFY.
type CreateTable struct {
	Table schema.Table
}

func (CreateTable) delta() {}

// DropTable removes a table and all its rows.
type DropTable struct {
	Name string
}

func (DropTable) delta() {}

// AddRow appends a row to a table. The row is validated against the
// declared schema: arity must match and every value's kind must be
// admissible for its column.
type AddRow struct {
	Table string
	Row   value.Row
}

func (AddRow) delta() {}

// RemoveRow removes the first row value-equal to the given row. Fails
// NO_SUCH_ROW when no row matches.
type RemoveRow struct {
	Table string
	Row   value.Row
}

func (RemoveRow) delta() {}

// Apply executes a mutation against the database.
func (db *Database) Apply(delta Delta) error {
	switch d := delta.(type) {
	case CreateTable:
		return db.createTable(d.Table)
	case DropTable:
		return db.dropTable(d.Name)
	case AddRow:
		return db.addRow(d.Table, d.Row)
	case RemoveRow:
		return db.removeRow(d.Table, d.Row)
	default:
		panic(fmt.Sprintf("unknown delta: %T", delta))
	}
}

func (db *Database) createTable(table schema.Table) error {
	if i, ok := db.tableIndex(table.Name()); ok {
		if !db.tables[i].Equal(table) {
			return newAddCannotModify(table.Name())
		}
		return nil
	}
	db.tables = append(db.tables, table)
	db.rows[table.Name()] = nil
	return nil
}

func (db *Database) dropTable(name string) error {
	i, ok := db.tableIndex(name)
	if !ok {
		return newNoSuchTable(name)
	}
	db.tables = append(db.tables[:i:i], db.tables[i+1:]...)
	delete(db.rows, name)
	return nil
}

func (db *Database) addRow(name string, row value.Row) error {
	i, ok := db.tableIndex(name)
	if !ok {
		return newNoSuchTable(name)
	}
	table := db.tables[i]

	if err := validateRow(table, row); err != nil {
		return err
	}
	db.rows[name] = append(db.rows[name], row)
	return nil
}

func (db *Database) removeRow(name string, row value.Row) error {
	rows, ok := db.rows[name]
	if !ok {
		return newNoSuchTable(name)
	}
	for i, candidate := range rows {
		if candidate.Equal(row) {
			// Rebuild rather than edit in place: snapshots handed to
			// in-flight queries must stay intact.
			next := make([]value.Row, 0, len(rows)-1)
			next = append(next, rows[:i]...)
			next = append(next, rows[i+1:]...)
			db.rows[name] = next
			return nil
		}
	}
	return newNoSuchRow(name)
}

// validateRow checks a row against a table declaration: exact arity and
// an admissible value kind per column.
func validateRow(table schema.Table, row value.Row) error {
	if len(row) != table.NumFields() {
		return newSchemaViolation(table.Name(), fmt.Sprintf(
			"row has %d values, table declares %d columns", len(row), table.NumFields()))
	}
	for i, v := range row {
		field := table.Field(i)
		if !kindAdmits(field.Kind, v) {
			return newSchemaViolation(table.Name(), fmt.Sprintf(
				"column %q (%s) does not admit %s values",
				field.Name, schema.KindString(field.Kind), v.Kind()))
		}
	}
	return nil
}

// kindAdmits reports whether a declared column type admits a runtime
// value kind. Foreign-key columns admit the integer and text kinds a
// referenced key may carry.
func kindAdmits(kind schema.FieldKind, v value.Value) bool {
	switch fk := kind.(type) {
	case schema.Integer:
		if fk.Signed {
			return v.Kind() == value.KindSigned
		}
		return v.Kind() == value.KindUnsigned
	case schema.Real:
		return v.Kind() == value.KindReal
	case schema.Text:
		return v.Kind() == value.KindText
	case schema.Blob:
		return v.Kind() == value.KindBlob
	case schema.ForeignKey:
		switch v.Kind() {
		case value.KindUnsigned, value.KindSigned, value.KindText:
			return true
		}
		return false
	default:
		return false
	}
}
