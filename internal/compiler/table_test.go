package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuubasoft/srimdb/internal/schema"
)

func compileSource(t *testing.T, source string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(source)
	require.NoError(t, v.Err())
	return v
}

func TestCompileTables(t *testing.T) {
	v := compileSource(t, `
table: Companies: {
	fields: {
		id:   "u64"
		name: "text"
		city: "text"
	}
	key: ["id"]
}
table: Employees: {
	fields: {
		id:      "u64"
		name:    "text"
		salary:  "real"
		badge:   "blob"
		company: "->Companies"
	}
	key: ["id"]
}
`)

	tables, err := CompileTables(v)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	companies := tables[0]
	assert.Equal(t, "Companies", companies.Name())
	require.Equal(t, 3, companies.NumFields())
	assert.Equal(t, schema.Integer{Size: schema.N64}, companies.Field(0).Kind)
	assert.Equal(t, []bool{true, false, false}, companies.KeyFieldMask())

	employees := tables[1]
	assert.Equal(t, "Employees", employees.Name())
	assert.Equal(t, schema.Real{}, employees.Field(2).Kind)
	assert.Equal(t, schema.Blob{}, employees.Field(3).Kind)
	assert.Equal(t, schema.ForeignKey{Table: "Companies"}, employees.Field(4).Kind)
}

func TestCompileTableDefaultsKeyToAllColumns(t *testing.T) {
	v := compileSource(t, `
table: Tags: {
	fields: {
		name:  "text"
		color: "text"
	}
}
`)

	tables, err := CompileTables(v)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []bool{true, true}, tables[0].KeyFieldMask())
}

func TestCompileTablesRequiresTableStruct(t *testing.T) {
	v := compileSource(t, `other: {x: 1}`)

	_, err := CompileTables(v)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "table", cerr.Field)
}

func TestCompileTableRequiresFields(t *testing.T) {
	v := compileSource(t, `table: Broken: {key: ["id"]}`)

	_, err := CompileTables(v)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "table.Broken.fields", cerr.Field)
}

func TestCompileTableRejectsUnknownKeyword(t *testing.T) {
	v := compileSource(t, `
table: Broken: {
	fields: id: "u128"
}
`)

	_, err := CompileTables(v)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "table.Broken.fields.id", cerr.Field)
	assert.Contains(t, cerr.Message, "u128")
}

func TestCompileTableRejectsUnknownKeyField(t *testing.T) {
	v := compileSource(t, `
table: Broken: {
	fields: id: "u64"
	key: ["missing"]
}
`)

	_, err := CompileTables(v)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "table.Broken.key", cerr.Field)
}

func TestCompileNormalizesIdentifiersToNFC(t *testing.T) {
	// Label spelled as "e" + combining acute in the source; the compiled
	// name comes back in precomposed form.
	source := "table: {\"Cafe\\u0301\": {\n\tfields: id: \"u64\"\n}}"
	v := compileSource(t, source)

	tables, err := CompileTables(v)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Café", tables[0].Name())
}
