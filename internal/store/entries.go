package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const entryColumns = `id, date, category_id, focus_id, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*Entry, error) {
	e := &Entry{}
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.Date, &e.CategoryID, &e.FocusID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

// CreateEntry records that a category was touched on a date. A second entry
// for the same (date, category) pair fails with ErrDuplicateEntry.
func (s *Store) CreateEntry(date, categoryID string) (*Entry, error) {
	cat, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO entries (id, date, category_id, focus_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, date, categoryID, cat.FocusID, now, now,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEntry
	}
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", classify(err))
	}
	return s.GetEntry(id)
}

// GetOrCreateEntry returns the entry for (date, category), creating it lazily
// on first interaction.
func (s *Store) GetOrCreateEntry(date, categoryID string) (*Entry, error) {
	e, err := s.GetEntryByDateCategory(date, categoryID)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	e, err = s.CreateEntry(date, categoryID)
	if errors.Is(err, ErrDuplicateEntry) {
		// Lost a race with another writer; the row exists now.
		return s.GetEntryByDateCategory(date, categoryID)
	}
	return e, err
}

func (s *Store) GetEntry(id string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRow(
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, classify(err))
	}
	return e, nil
}

func (s *Store) GetEntryByDateCategory(date, categoryID string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRow(
		`SELECT `+entryColumns+` FROM entries WHERE date = ? AND category_id = ?`, date, categoryID,
	))
	if err != nil {
		return nil, fmt.Errorf("get entry %s/%s: %w", date, categoryID, classify(err))
	}
	return e, nil
}

// GetEntriesByDate returns the entries for a date joined with category
// display metadata, each loaded with its task completions and, for timed
// categories, its time entry. A nil focusID returns entries across all
// focuses; calendar views show cross-focus activity.
func (s *Store) GetEntriesByDate(date string, focusID *string) ([]EntryDetail, error) {
	query := `
		SELECT e.id, e.date, e.category_id, e.focus_id, e.created_at, e.updated_at,
		       c.name, c.emoji, c.color, c.time_type
		FROM entries e
		JOIN categories c ON c.id = e.category_id
		WHERE e.date = ?`
	args := []any{date}
	if focusID != nil {
		query += ` AND e.focus_id = ?`
		args = append(args, *focusID)
	}
	query += ` ORDER BY c.sort_order`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("entries by date: %w", err)
	}
	defer rows.Close()

	var details []EntryDetail
	for rows.Next() {
		var d EntryDetail
		var timeType, createdAt, updatedAt string
		err := rows.Scan(&d.ID, &d.Date, &d.CategoryID, &d.FocusID, &createdAt, &updatedAt,
			&d.CategoryName, &d.CategoryEmoji, &d.CategoryColor, &timeType)
		if err != nil {
			return nil, err
		}
		d.TimeType = TimeType(timeType)
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range details {
		completions, err := s.GetTaskCompletionsByEntry(details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Completions = completions

		if details[i].TimeType != TimeTypeNone {
			te, err := s.GetTimeEntryByEntry(details[i].ID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			details[i].TimeEntry = te
		}
	}
	return details, nil
}

// GetEntriesByDateRange returns plain entries with date in [start, end],
// optionally restricted to one focus.
func (s *Store) GetEntriesByDateRange(start, end string, focusID *string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE date >= ? AND date <= ?`
	args := []any{start, end}
	if focusID != nil {
		query += ` AND focus_id = ?`
		args = append(args, *focusID)
	}
	query += ` ORDER BY date`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("entries by range: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes an entry with its completions and time entry in one
// transaction.
func (s *Store) DeleteEntry(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM time_entries WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM task_completions WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("delete completions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
