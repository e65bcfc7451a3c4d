package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateUser creates the installation's user. A second call fails with
// ErrUserExists.
func (s *Store) CreateUser(name, email string, birthday *string) (*User, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, email, birthday, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, email, birthday, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser()
}

// GetUser returns the installation's user, or ErrNotFound before onboarding.
func (s *Store) GetUser() (*User, error) {
	u := &User{}
	var birthday sql.NullString
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, email, birthday, created_at, updated_at FROM users LIMIT 1`,
	).Scan(&u.ID, &u.Name, &u.Email, &birthday, &createdAt, &updatedAt)
	if err != nil {
		return nil, classify(err)
	}
	if birthday.Valid {
		u.Birthday = &birthday.String
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return u, nil
}

func (s *Store) UpdateUser(id, name, email string, birthday *string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE users SET name = ?, email = ?, birthday = ?, updated_at = ? WHERE id = ?`,
		name, email, birthday, now, id,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
