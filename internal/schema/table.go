package schema

import "fmt"

// TableField is a named, typed column declaration.
type TableField struct {
	Name string
	Kind FieldKind
}

// NewTableField creates a column declaration.
func NewTableField(name string, kind FieldKind) TableField {
	return TableField{Name: name, Kind: kind}
}

// Table declares a named relation: an ordered list of typed columns plus
// a key-field mask marking which columns form the identity key.
//
// Tables are read-only to the query core. All mutation (create/drop
// table, add/remove row) goes through the host-side engine.
type Table struct {
	name    string
	fields  []TableField
	keyMask []bool
}

// NewTable creates a table declaration. By default every column is part
// of the identity key; narrow with WithKeyFields.
func NewTable(name string, fields []TableField) Table {
	mask := make([]bool, len(fields))
	for i := range mask {
		mask[i] = true
	}
	return Table{name: name, fields: fields, keyMask: mask}
}

// WithKeyFields returns a copy of the table whose identity key is exactly
// the named columns. Unknown column names are an error.
func (t Table) WithKeyFields(names ...string) (Table, error) {
	mask := make([]bool, len(t.fields))
	for _, name := range names {
		i, ok := t.FieldIndex(name)
		if !ok {
			return Table{}, fmt.Errorf("key field %q does not exist in table %q", name, t.name)
		}
		mask[i] = true
	}
	t.keyMask = mask
	return t, nil
}

// Name returns the table name.
func (t Table) Name() string {
	return t.name
}

// Fields returns a copy of the ordered column declarations.
func (t Table) Fields() []TableField {
	fields := make([]TableField, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// NumFields returns the column count.
func (t Table) NumFields() int {
	return len(t.fields)
}

// Field returns the column declaration at position i.
func (t Table) Field(i int) TableField {
	return t.fields[i]
}

// FieldIndex returns the position of the named column.
func (t Table) FieldIndex(name string) (int, bool) {
	for i, f := range t.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// KeyFieldMask returns a copy of the identity-key mask, positionally
// aligned to Fields.
func (t Table) KeyFieldMask() []bool {
	mask := make([]bool, len(t.keyMask))
	copy(mask, t.keyMask)
	return mask
}

// Equal reports whether two table declarations are identical: same name,
// same columns in the same order with the same kinds, same key mask.
func (t Table) Equal(other Table) bool {
	if t.name != other.name || len(t.fields) != len(other.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i] != other.fields[i] {
			return false
		}
	}
	for i := range t.keyMask {
		if t.keyMask[i] != other.keyMask[i] {
			return false
		}
	}
	return true
}
