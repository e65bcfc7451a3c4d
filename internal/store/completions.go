package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const completionColumns = `id, entry_id, task_id, task_name, quantity, duration, is_other_task, created_at, updated_at`

func scanCompletion(row interface{ Scan(...any) error }) (*TaskCompletion, error) {
	c := &TaskCompletion{}
	var taskID sql.NullString
	var duration sql.NullInt64
	var isOther int
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.EntryID, &taskID, &c.TaskName, &c.Quantity, &duration, &isOther, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if taskID.Valid {
		c.TaskID = &taskID.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		c.Duration = &d
	}
	c.IsOtherTask = isOther == 1
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// CreateTaskCompletion logs quantity (and, for duration categories, minutes)
// against a task within an entry. taskID is nil for ad hoc "other" tasks;
// taskName is stored either way so history survives task deletion.
func (s *Store) CreateTaskCompletion(entryID string, taskID *string, taskName string, quantity int, duration *int, isOtherTask bool) (*TaskCompletion, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	isOther := 0
	if isOtherTask {
		isOther = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO task_completions (id, entry_id, task_id, task_name, quantity, duration, is_other_task, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entryID, taskID, taskName, quantity, duration, isOther, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", classify(err))
	}
	return s.GetTaskCompletion(id)
}

func (s *Store) GetTaskCompletion(id string) (*TaskCompletion, error) {
	c, err := scanCompletion(s.db.QueryRow(
		`SELECT `+completionColumns+` FROM task_completions WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get completion %s: %w", id, classify(err))
	}
	return c, nil
}

func (s *Store) GetTaskCompletionsByEntry(entryID string) ([]TaskCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionColumns+` FROM task_completions WHERE entry_id = ? ORDER BY created_at`, entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("completions by entry: %w", err)
	}
	defer rows.Close()

	var completions []TaskCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

func (s *Store) UpdateTaskCompletion(id string, quantity int, duration *int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE task_completions SET quantity = ?, duration = ?, updated_at = ? WHERE id = ?`,
		quantity, duration, now, id,
	)
	if err != nil {
		return fmt.Errorf("update completion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTaskCompletion(id string) error {
	res, err := s.db.Exec(`DELETE FROM task_completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
