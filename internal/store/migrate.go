package store

import (
	"fmt"
	"time"
)

// columnMigration adds a single nullable column to an existing table. The
// column is probed before the ALTER because the same physical column may
// already exist from a partially-applied earlier run (SQLite errors on
// duplicate columns), and because fresh databases create it in the base DDL.
type columnMigration struct {
	version    int
	table      string
	column     string
	definition string
}

var migrations = []columnMigration{
	{version: 1, table: "users", column: "birthday", definition: "TEXT"},
	{version: 2, table: "task_completions", column: "duration", definition: "INTEGER"},
}

// runMigrations applies every migration above the recorded version, each in
// its own transaction. Any failure rolls back that single migration and is
// fatal to startup.
func (s *Store) runMigrations() error {
	var current int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(m columnMigration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		m.table, m.column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("probe column %s.%s: %w", m.table, m.column, err)
	}

	if count == 0 {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		m.version, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}
