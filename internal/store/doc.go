// Package store provides SQLite-backed persistence for database
// snapshots.
//
// A snapshot holds the full state of an engine.Database: every table
// declaration (in creation order) and every row (in insertion order).
// Declarations and rows are serialized to tagged JSON TEXT so that a
// saved file is inspectable with the sqlite3 shell.
//
// Ordering is positional: both tables and rows carry an explicit
// position column, and every read orders by it, so a load reproduces
// the exact table and row order of the save.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
