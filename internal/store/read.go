package store

import (
	"context"
	"fmt"

	"github.com/tuubasoft/srimdb/internal/engine"
)

// Load reconstructs a database from the stored snapshot. Tables come
// back in their original creation order and rows in their original
// insertion order, so query results over a loaded database match
// results over the database that was saved.
//
// Options are forwarded to engine.New, so callers can attach their own
// logger or token generator to the loaded database.
func (s *Store) Load(ctx context.Context, opts ...engine.Option) (*engine.Database, error) {
	db := engine.New(opts...)

	names, err := s.loadTables(ctx, db)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := s.loadRows(ctx, db, name); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// loadTables applies every stored table declaration in position order
// and returns the table names in that order.
func (s *Store) loadTables(ctx context.Context, db *engine.Database) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT declaration
		FROM tables
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load: query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var declaration string
		if err := rows.Scan(&declaration); err != nil {
			return nil, fmt.Errorf("load: scan table: %w", err)
		}
		table, err := unmarshalTable(declaration)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if err := db.Apply(engine.CreateTable{Table: table}); err != nil {
			return nil, fmt.Errorf("load: create table %q: %w", table.Name(), err)
		}
		names = append(names, table.Name())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load: iterate tables: %w", err)
	}
	return names, nil
}

// loadRows applies every stored row of one table in position order.
func (s *Store) loadRows(ctx context.Context, db *engine.Database, table string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data
		FROM table_rows
		WHERE table_name = ?
		ORDER BY position ASC
	`, table)
	if err != nil {
		return fmt.Errorf("load: query rows of %q: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("load: scan row of %q: %w", table, err)
		}
		row, err := unmarshalRow(data)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		if err := db.Apply(engine.AddRow{Table: table, Row: row}); err != nil {
			return fmt.Errorf("load: add row to %q: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load: iterate rows of %q: %w", table, err)
	}
	return nil
}
