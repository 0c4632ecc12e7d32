package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuubasoft/srimdb/internal/engine"
	"github.com/tuubasoft/srimdb/internal/store"
	"github.com/tuubasoft/srimdb/internal/value"
)

const companiesSchema = `
table: Companies: {
	fields: {
		id:   "u64"
		name: "text"
		city: "text"
	}
	key: ["id"]
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "companies.cue", companiesSchema)

	out, err := executeCommand(t, "validate", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "1 table(s) valid")
}

func TestValidateCommandReportsErrors(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "employees.cue", `
table: Employees: {
	fields: company: "->Missing"
}
`)

	out, err := executeCommand(t, "validate", schema)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E105")
}

func TestValidateCommandCompileFailure(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "broken.cue", `table: Broken: {fields: id: "u128"}`)

	_, err := executeCommand(t, "validate", schema)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInitAndQueryCommands(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "companies.cue", companiesSchema)
	dbPath := filepath.Join(dir, "snapshot.db")

	_, err := executeCommand(t, "init", "--db", dbPath, schema)
	require.NoError(t, err)
	require.FileExists(t, dbPath)

	// Seed two rows through the store so the query has data.
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	db, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Apply(engine.AddRow{Table: "Companies",
		Row: value.NewRow(value.Unsigned(0), value.Text("TuubaSoft"), value.Text("Oulu"))}))
	require.NoError(t, db.Apply(engine.AddRow{Table: "Companies",
		Row: value.NewRow(value.Unsigned(1), value.Text("Kuulalaakeri"), value.Text("Helsinki"))}))
	require.NoError(t, s.Save(ctx, db))
	require.NoError(t, s.Close())

	qf := writeFile(t, dir, "by-city.yaml", `
select:
  where:
    call:
      function: strict_eq
      args:
        - field: Companies.city
        - value: {text: "Oulu"}
  from:
    table: Companies
`)

	out, err := executeCommand(t, "query", "--db", dbPath, qf)
	require.NoError(t, err)
	assert.Contains(t, out, "TuubaSoft")
	assert.NotContains(t, out, "Kuulalaakeri")
	assert.Contains(t, out, "(1 rows)")
}

func TestQueryCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "companies.cue", companiesSchema)
	dbPath := filepath.Join(dir, "snapshot.db")

	_, err := executeCommand(t, "init", "--db", dbPath, schema)
	require.NoError(t, err)

	qf := writeFile(t, dir, "all.yaml", "table: Companies\n")

	out, err := executeCommand(t, "--format", "json", "query", "--db", dbPath, qf)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   QueryPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"Companies.id", "Companies.name", "Companies.city"}, resp.Data.Fields)
	assert.Equal(t, 0, resp.Data.Count)
}

func TestQueryCommandMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	qf := writeFile(t, dir, "all.yaml", "table: Companies\n")

	_, err := executeCommand(t, "query", "--db", filepath.Join(dir, "absent.db"), qf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommandEvaluationFailure(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "companies.cue", companiesSchema)
	dbPath := filepath.Join(dir, "snapshot.db")

	_, err := executeCommand(t, "init", "--db", dbPath, schema)
	require.NoError(t, err)

	qf := writeFile(t, dir, "missing.yaml", "table: Missing\n")

	out, err := executeCommand(t, "query", "--db", dbPath, qf)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NO_SUCH_TABLE")
}

func TestTablesCommand(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "companies.cue", companiesSchema)
	dbPath := filepath.Join(dir, "snapshot.db")

	_, err := executeCommand(t, "init", "--db", dbPath, schema)
	require.NoError(t, err)

	out, err := executeCommand(t, "tables", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Companies (0 rows)")
	assert.Contains(t, out, "* id")
	assert.Contains(t, out, "u64")
}
