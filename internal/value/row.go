package value

// Row is an ordered sequence of values, positionally aligned to the field
// list of the table or query result that owns it.
//
// INVARIANT: len(row) equals the arity of the owning field list for every
// row in a table or result.
type Row []Value

// NewRow creates a row from values.
func NewRow(values ...Value) Row {
	return Row(values)
}

// PickColumns returns a fresh row holding the values at the given column
// positions, in the given order.
func (r Row) PickColumns(columns []int) Row {
	out := make(Row, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}
	return out
}

// Equal reports positional strict equality of two rows.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !Equal(r[i], other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for i, v := range r {
		out[i] = Clone(v)
	}
	return out
}
