package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath, creates the schema
// and runs any pending migrations. A store whose New fails must not be used.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates every table and index if missing. Safe to re-run on
// every startup.
func (s *Store) initSchema() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL DEFAULT '',
		birthday    TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS focuses (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		emoji       TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		is_active   INTEGER NOT NULL DEFAULT 0,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		focus_id    TEXT NOT NULL REFERENCES focuses(id),
		name        TEXT NOT NULL,
		emoji       TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		time_type   TEXT NOT NULL DEFAULT 'none',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		category_id  TEXT NOT NULL REFERENCES categories(id),
		name         TEXT NOT NULL,
		is_recurring INTEGER NOT NULL DEFAULT 1,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		date        TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id),
		focus_id    TEXT NOT NULL REFERENCES focuses(id),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(date, category_id)
	);

	CREATE TABLE IF NOT EXISTS task_completions (
		id            TEXT PRIMARY KEY,
		entry_id      TEXT NOT NULL REFERENCES entries(id),
		task_id       TEXT REFERENCES tasks(id),
		task_name     TEXT NOT NULL,
		quantity      INTEGER NOT NULL DEFAULT 1,
		duration      INTEGER,
		is_other_task INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id          TEXT PRIMARY KEY,
		entry_id    TEXT NOT NULL UNIQUE REFERENCES entries(id),
		start_time  TEXT,
		end_time    TEXT,
		duration    INTEGER,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_focuses_active     ON focuses(is_active);
	CREATE INDEX IF NOT EXISTS idx_categories_focus   ON categories(focus_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_category     ON tasks(category_id);
	CREATE INDEX IF NOT EXISTS idx_entries_date       ON entries(date);
	CREATE INDEX IF NOT EXISTS idx_entries_focus      ON entries(focus_id);
	CREATE INDEX IF NOT EXISTS idx_entries_category   ON entries(category_id);
	CREATE INDEX IF NOT EXISTS idx_completions_entry  ON task_completions(entry_id);
	CREATE INDEX IF NOT EXISTS idx_completions_task   ON task_completions(task_id);
	CREATE INDEX IF NOT EXISTS idx_time_entries_entry ON time_entries(entry_id);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('onboarding_complete', 'false'),
		('week_start',          'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/focusly/focusly.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusly", "focusly.db"), nil
}
