package store

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a row with the given ID does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntry is returned when an entry already exists for the
	// same (date, category) pair. Callers that want get-or-create semantics
	// should use GetOrCreateEntry instead.
	ErrDuplicateEntry = errors.New("entry already exists for date and category")

	// ErrForeignKey is returned when a row references a missing parent.
	ErrForeignKey = errors.New("referenced parent does not exist")

	// ErrLastFocus is returned when deleting the only remaining focus.
	ErrLastFocus = errors.New("cannot delete the last focus")

	// ErrUserExists is returned by CreateUser when a user already exists;
	// the installation holds a single user created during onboarding.
	ErrUserExists = errors.New("user already exists")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// classify maps driver errors onto the store's error taxonomy, leaving
// unrecognized errors untouched.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isForeignKeyViolation(err):
		return ErrForeignKey
	default:
		return err
	}
}
