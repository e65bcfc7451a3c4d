package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const focusColumns = `id, name, emoji, color, is_active, sort_order, created_at, updated_at`

func scanFocus(row interface{ Scan(...any) error }) (*Focus, error) {
	f := &Focus{}
	var isActive int
	var createdAt, updatedAt string
	err := row.Scan(&f.ID, &f.Name, &f.Emoji, &f.Color, &isActive, &f.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	f.IsActive = isActive == 1
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	f.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return f, nil
}

// CreateFocus appends a focus at the end of the sort order. The first focus
// ever created becomes the active one.
func (s *Store) CreateFocus(name, emoji, color string) (*Focus, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count, maxOrder int
	err = tx.QueryRow(`SELECT COUNT(*), COALESCE(MAX(sort_order), 0) FROM focuses`).Scan(&count, &maxOrder)
	if err != nil {
		return nil, fmt.Errorf("focus order: %w", err)
	}

	isActive := 0
	if count == 0 {
		isActive = 1
	}
	_, err = tx.Exec(
		`INSERT INTO focuses (id, name, emoji, color, is_active, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, emoji, color, isActive, maxOrder+1, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert focus: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetFocus(id)
}

func (s *Store) GetFocus(id string) (*Focus, error) {
	f, err := scanFocus(s.db.QueryRow(
		`SELECT `+focusColumns+` FROM focuses WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get focus %s: %w", id, classify(err))
	}
	return f, nil
}

// GetActiveFocus returns the focus with is_active set, or ErrNotFound when no
// focuses exist yet.
func (s *Store) GetActiveFocus() (*Focus, error) {
	f, err := scanFocus(s.db.QueryRow(
		`SELECT ` + focusColumns + ` FROM focuses WHERE is_active = 1 LIMIT 1`,
	))
	if err != nil {
		return nil, fmt.Errorf("get active focus: %w", classify(err))
	}
	return f, nil
}

func (s *Store) ListFocuses() ([]Focus, error) {
	rows, err := s.db.Query(`SELECT ` + focusColumns + ` FROM focuses ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list focuses: %w", err)
	}
	defer rows.Close()

	var focuses []Focus
	for rows.Next() {
		f, err := scanFocus(rows)
		if err != nil {
			return nil, err
		}
		focuses = append(focuses, *f)
	}
	return focuses, rows.Err()
}

func (s *Store) UpdateFocus(id, name, emoji, color string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE focuses SET name = ?, emoji = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, emoji, color, now, id,
	)
	if err != nil {
		return fmt.Errorf("update focus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActiveFocus clears is_active on every focus and sets it on the target,
// in one transaction: no observable state has zero or two active focuses.
func (s *Store) SetActiveFocus(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`UPDATE focuses SET is_active = 0, updated_at = ? WHERE is_active = 1`, now); err != nil {
		return fmt.Errorf("clear active focus: %w", err)
	}
	res, err := tx.Exec(`UPDATE focuses SET is_active = 1, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("set active focus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// DeleteFocus removes a focus and everything under it: for each of its
// categories, the category cascade (time entries, completions, entries,
// tasks) runs inside the same transaction. Deleting the last focus is
// forbidden. When the deleted focus was active, the first remaining focus by
// sort order takes over so exactly one focus stays active.
func (s *Store) DeleteFocus(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM focuses`).Scan(&count); err != nil {
		return fmt.Errorf("count focuses: %w", err)
	}
	if count <= 1 {
		return ErrLastFocus
	}

	var wasActive int
	err = tx.QueryRow(`SELECT is_active FROM focuses WHERE id = ?`, id).Scan(&wasActive)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get focus %s: %w", id, err)
	}

	catRows, err := tx.Query(`SELECT id FROM categories WHERE focus_id = ?`, id)
	if err != nil {
		return fmt.Errorf("list focus categories: %w", err)
	}
	var categoryIDs []string
	for catRows.Next() {
		var cid string
		if err := catRows.Scan(&cid); err != nil {
			catRows.Close()
			return err
		}
		categoryIDs = append(categoryIDs, cid)
	}
	catRows.Close()
	if err := catRows.Err(); err != nil {
		return err
	}

	for _, cid := range categoryIDs {
		if err := deleteCategoryTx(tx, cid); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM focuses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete focus: %w", err)
	}

	if wasActive == 1 {
		now := time.Now().UTC().Format(time.RFC3339)
		_, err = tx.Exec(
			`UPDATE focuses SET is_active = 1, updated_at = ?
			 WHERE id = (SELECT id FROM focuses ORDER BY sort_order LIMIT 1)`, now)
		if err != nil {
			return fmt.Errorf("promote next focus: %w", err)
		}
	}
	return tx.Commit()
}
