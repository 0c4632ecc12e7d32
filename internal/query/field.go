package query

// Field is a two-part column identifier: an optional table qualifier plus
// a field name. It serves both as a schema-bound reference (qualified,
// produced by table scans) and as a query-local reference (unqualified,
// produced by projection and literal operators).
//
// A stored field matches a reference when the names are equal AND the
// reference either has no table qualifier or the qualifiers are equal.
type Field struct {
	// Table is the qualifying table name; empty means local to the
	// current query.
	Table string

	// Name is the field name.
	Name string
}

// NewField creates an unqualified (local) field reference.
func NewField(name string) Field {
	return Field{Name: name}
}

// FromTable returns the reference qualified with a table name.
func (f Field) FromTable(table string) Field {
	f.Table = table
	return f
}

// IsLocal reports whether the reference has no table qualifier.
func (f Field) IsLocal() bool {
	return f.Table == ""
}

// Matches reports whether a stored field satisfies this reference.
func (f Field) Matches(stored Field) bool {
	if f.Name != stored.Name {
		return false
	}
	return f.Table == "" || f.Table == stored.Table
}

func (f Field) String() string {
	if f.Table == "" {
		return f.Name
	}
	return f.Table + "." + f.Name
}
