// Package engine provides the host-side database: an in-memory,
// schema-typed table store with a mutation API, wrapped around the pure
// query core.
//
// The query evaluator only ever sees the read-only Catalog face of the
// database. All mutation goes through Apply, and mutations replace row
// slices rather than editing them in place, so a result materialized
// from an earlier snapshot stays valid.
//
// Thread-safety model: the database itself is not synchronized. A host
// that runs queries concurrently with mutations must serialize them
// (single writer, or snapshot per reader); concurrent read-only queries
// against an unchanging database are safe because evaluation is pure.
package engine

import (
	"log/slog"

	"github.com/tuubasoft/srimdb/internal/query"
	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/value"
)

// Database is an in-memory table store plus an instance-owned function
// registry. It implements query.Catalog.
type Database struct {
	tables    []schema.Table // declaration order, preserved across drops
	rows      map[string][]value.Row
	functions query.Registry
	tokens    TokenGenerator
	log       *slog.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for query execution logging.
func WithLogger(log *slog.Logger) Option {
	return func(db *Database) {
		db.log = log
	}
}

// WithTokenGenerator sets the execution-token generator. Tests use
// FixedGenerator for deterministic logs.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(db *Database) {
		db.tokens = gen
	}
}

// New creates an empty database. The function registry is built fresh
// from the builtin table at construction time; multiple databases can
// coexist with independent registries.
func New(opts ...Option) *Database {
	db := &Database{
		rows:      make(map[string][]value.Row),
		functions: query.Builtins(),
		tokens:    UUIDv7Generator{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Table returns the named table's schema. Part of query.Catalog.
func (db *Database) Table(name string) (schema.Table, bool) {
	i, ok := db.tableIndex(name)
	if !ok {
		return schema.Table{}, false
	}
	return db.tables[i], true
}

// AllRows returns the current row snapshot of the named table. Part of
// query.Catalog. The returned slice is replaced, never edited, by later
// mutations.
func (db *Database) AllRows(name string) ([]value.Row, bool) {
	rows, ok := db.rows[name]
	return rows, ok
}

// Functions returns the instance-owned function registry. Part of
// query.Catalog.
func (db *Database) Functions() query.Registry {
	return db.functions
}

// Tables returns the table declarations in creation order.
func (db *Database) Tables() []schema.Table {
	tables := make([]schema.Table, len(db.tables))
	copy(tables, db.tables)
	return tables
}

// Query evaluates an operator tree against the database's current state.
// Each execution is tagged with a token for log correlation.
func (db *Database) Query(q query.Query) (*query.Result, error) {
	token := db.tokens.Generate()
	db.log.Debug("executing query", "query_token", token)

	result, err := query.Execute(q, db)
	if err != nil {
		db.log.Debug("query failed", "query_token", token, "error", err)
		return nil, err
	}

	db.log.Debug("query complete",
		"query_token", token,
		"fields", len(result.FieldNames()),
		"rows", result.NumRows())
	return result, nil
}

func (db *Database) tableIndex(name string) (int, bool) {
	for i, t := range db.tables {
		if t.Name() == name {
			return i, true
		}
	}
	return 0, false
}
