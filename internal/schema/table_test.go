package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() Table {
	return NewTable("Users", []TableField{
		NewTableField("id", Integer{Size: N64, Signed: false}),
		NewTableField("name", Text{}),
	})
}

func TestNewTableDefaultsAllFieldsToKey(t *testing.T) {
	tbl := usersTable()
	assert.Equal(t, "Users", tbl.Name())
	assert.Equal(t, []bool{true, true}, tbl.KeyFieldMask())
}

func TestWithKeyFields(t *testing.T) {
	tbl, err := usersTable().WithKeyFields("id")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, tbl.KeyFieldMask())
}

func TestWithKeyFieldsUnknownField(t *testing.T) {
	_, err := usersTable().WithKeyFields("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestFieldIndex(t *testing.T) {
	tbl := usersTable()

	i, ok := tbl.FieldIndex("name")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = tbl.FieldIndex("missing")
	assert.False(t, ok)
}

func TestTableEqual(t *testing.T) {
	a := usersTable()
	b := usersTable()
	assert.True(t, a.Equal(b))

	// Different column kind
	c := NewTable("Users", []TableField{
		NewTableField("id", Integer{Size: N64, Signed: true}),
		NewTableField("name", Text{}),
	})
	assert.False(t, a.Equal(c))

	// Different key mask
	d, err := usersTable().WithKeyFields("id")
	require.NoError(t, err)
	assert.False(t, a.Equal(d))
}

func TestConstantSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		kind FieldKind
		size uint8
		ok   bool
	}{
		{"u8", Integer{Size: N8}, 1, true},
		{"i16", Integer{Size: N16, Signed: true}, 2, true},
		{"u32", Integer{Size: N32}, 4, true},
		{"i64", Integer{Size: N64, Signed: true}, 8, true},
		{"real", Real{}, 0, false},
		{"text", Text{}, 0, false},
		{"blob", Blob{}, 0, false},
		{"foreign_key", ForeignKey{Table: "Users"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, ok := ConstantSizeBytes(tt.kind)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "u64", KindString(Integer{Size: N64}))
	assert.Equal(t, "i32", KindString(Integer{Size: N32, Signed: true}))
	assert.Equal(t, "real", KindString(Real{}))
	assert.Equal(t, "text", KindString(Text{}))
	assert.Equal(t, "blob", KindString(Blob{}))
	assert.Equal(t, "->Companies", KindString(ForeignKey{Table: "Companies"}))
}

func TestParseKindRoundTrip(t *testing.T) {
	kinds := []FieldKind{
		Integer{Size: N8}, Integer{Size: N16}, Integer{Size: N32}, Integer{Size: N64},
		Integer{Size: N8, Signed: true}, Integer{Size: N64, Signed: true},
		Real{}, Text{}, Blob{},
		ForeignKey{Table: "Companies"},
	}
	for _, kind := range kinds {
		t.Run(KindString(kind), func(t *testing.T) {
			parsed, err := ParseKind(KindString(kind))
			require.NoError(t, err)
			assert.Equal(t, kind, parsed)
		})
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "u128", "int", "->", "Real"} {
		_, err := ParseKind(s)
		assert.Error(t, err, s)
	}
}
