package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestLoadTablesFromMultipleFiles(t *testing.T) {
	companies := writeSchema(t, "companies.cue", `
table: Companies: {
	fields: {
		id:   "u64"
		name: "text"
	}
	key: ["id"]
}
`)
	employees := writeSchema(t, "employees.cue", `
table: Employees: {
	fields: {
		id:      "u64"
		company: "->Companies"
	}
	key: ["id"]
}
`)

	tables, err := LoadTables(companies, employees)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Companies", tables[0].Name())
	assert.Equal(t, "Employees", tables[1].Name())
	assert.Empty(t, Validate(tables))
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "absent.cue"))
	assert.Error(t, err)
}

func TestLoadTablesReportsPosition(t *testing.T) {
	path := writeSchema(t, "broken.cue", `
table: Broken: {
	fields: id: "u128"
}
`)

	_, err := LoadTables(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestLoadTablesSyntaxError(t *testing.T) {
	path := writeSchema(t, "syntax.cue", `table: { unclosed`)

	_, err := LoadTables(path)
	assert.Error(t, err)
}
