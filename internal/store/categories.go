package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const categoryColumns = `id, focus_id, name, emoji, color, time_type, sort_order, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	c := &Category{}
	var timeType, createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.FocusID, &c.Name, &c.Emoji, &c.Color, &timeType, &c.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.TimeType = TimeType(timeType)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// CreateCategory appends a category at the end of its focus's sort order.
func (s *Store) CreateCategory(focusID, name, emoji, color string, timeType TimeType) (*Category, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	var maxOrder int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), 0) FROM categories WHERE focus_id = ?`, focusID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("category order: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO categories (id, focus_id, name, emoji, color, time_type, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, focusID, name, emoji, color, string(timeType), maxOrder+1, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", classify(err))
	}
	return s.GetCategory(id)
}

func (s *Store) GetCategory(id string) (*Category, error) {
	c, err := scanCategory(s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, classify(err))
	}
	return c, nil
}

func (s *Store) ListCategories(focusID string) ([]Category, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryColumns+` FROM categories WHERE focus_id = ? ORDER BY sort_order`, focusID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(id, name, emoji, color string, timeType TimeType) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE categories SET name = ?, emoji = ?, color = ?, time_type = ?, updated_at = ? WHERE id = ?`,
		name, emoji, color, string(timeType), now, id,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category and everything it owns in strict
// child-to-parent order inside one transaction. Any failure leaves the
// category fully intact.
func (s *Store) DeleteCategory(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM categories WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get category %s: %w", id, err)
	}

	if err := deleteCategoryTx(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteCategoryTx runs the cascade for one category within an open
// transaction: time entries of its entries, then task completions of its
// entries, then the entries, then its tasks, then the category itself.
func deleteCategoryTx(tx *sql.Tx, id string) error {
	steps := []struct {
		desc string
		stmt string
	}{
		{"delete time entries", `DELETE FROM time_entries WHERE entry_id IN (SELECT id FROM entries WHERE category_id = ?)`},
		{"delete task completions", `DELETE FROM task_completions WHERE entry_id IN (SELECT id FROM entries WHERE category_id = ?)`},
		{"delete entries", `DELETE FROM entries WHERE category_id = ?`},
		{"delete tasks", `DELETE FROM tasks WHERE category_id = ?`},
		{"delete category", `DELETE FROM categories WHERE id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.stmt, id); err != nil {
			return fmt.Errorf("%s: %w", step.desc, err)
		}
	}
	return nil
}
