package store

import (
	"context"
	"fmt"

	"github.com/tuubasoft/srimdb/internal/engine"
)

// Save writes a full snapshot of the database, replacing any snapshot
// already present in the file. The write is transactional: a failed
// save leaves the previous snapshot intact.
func (s *Store) Save(ctx context.Context, db *engine.Database) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// table_rows cascades from tables, but delete explicitly so the
	// statement order does not depend on foreign_keys being on.
	if _, err := tx.ExecContext(ctx, "DELETE FROM table_rows"); err != nil {
		return fmt.Errorf("save: clear rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tables"); err != nil {
		return fmt.Errorf("save: clear tables: %w", err)
	}

	for pos, table := range db.Tables() {
		declaration, err := marshalTable(table)
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tables (name, position, declaration)
			VALUES (?, ?, ?)
		`, table.Name(), pos, declaration)
		if err != nil {
			return fmt.Errorf("save table %q: %w", table.Name(), err)
		}

		rows, _ := db.AllRows(table.Name())
		for rowPos, row := range rows {
			data, err := marshalRow(row)
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO table_rows (table_name, position, data)
				VALUES (?, ?, ?)
			`, table.Name(), rowPos, data)
			if err != nil {
				return fmt.Errorf("save rows of %q: %w", table.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save: commit: %w", err)
	}
	return nil
}
