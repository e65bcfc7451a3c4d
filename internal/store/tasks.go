package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, category_id, name, is_recurring, sort_order, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	t := &Task{}
	var isRecurring int
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.CategoryID, &t.Name, &isRecurring, &t.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.IsRecurring = isRecurring == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

// CreateTask appends a task at the end of its category's sort order.
func (s *Store) CreateTask(categoryID, name string, isRecurring bool) (*Task, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	var maxOrder int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), 0) FROM tasks WHERE category_id = ?`, categoryID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("task order: %w", err)
	}

	recurring := 0
	if isRecurring {
		recurring = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO tasks (id, category_id, name, is_recurring, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, categoryID, name, recurring, maxOrder+1, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", classify(err))
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*Task, error) {
	t, err := scanTask(s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, classify(err))
	}
	return t, nil
}

func (s *Store) ListTasks(categoryID string) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE category_id = ? ORDER BY sort_order`, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id, name string, isRecurring bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	recurring := 0
	if isRecurring {
		recurring = 1
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET name = ?, is_recurring = ?, updated_at = ? WHERE id = ?`,
		name, recurring, now, id,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask detaches the task's completions (they keep task_name for
// historical display) and removes the task, in one transaction.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`UPDATE task_completions SET task_id = NULL, updated_at = ? WHERE task_id = ?`, now, id,
	); err != nil {
		return fmt.Errorf("detach completions: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
