package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeEntryColumns = `id, entry_id, start_time, end_time, duration, created_at, updated_at`

func scanTimeEntry(row interface{ Scan(...any) error }) (*TimeEntry, error) {
	te := &TimeEntry{}
	var startTime, endTime sql.NullString
	var duration sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(&te.ID, &te.EntryID, &startTime, &endTime, &duration, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if startTime.Valid {
		t, _ := time.Parse(time.RFC3339, startTime.String)
		te.StartTime = &t
	}
	if endTime.Valid {
		t, _ := time.Parse(time.RFC3339, endTime.String)
		te.EndTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		te.Duration = &d
	}
	te.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	te.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return te, nil
}

// CreateOrUpdateTimeEntry upserts the time record for an entry. At most one
// time entry exists per entry; a second call updates the existing row in
// place. A clock session is open while endTime is nil.
func (s *Store) CreateOrUpdateTimeEntry(entryID string, startTime, endTime *time.Time, duration *int) (*TimeEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var startStr, endStr *string
	if startTime != nil {
		v := startTime.UTC().Format(time.RFC3339)
		startStr = &v
	}
	if endTime != nil {
		v := endTime.UTC().Format(time.RFC3339)
		endStr = &v
	}

	_, err := s.db.Exec(
		`INSERT INTO time_entries (id, entry_id, start_time, end_time, duration, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(entry_id) DO UPDATE SET
		   start_time = excluded.start_time,
		   end_time   = excluded.end_time,
		   duration   = excluded.duration,
		   updated_at = excluded.updated_at`,
		uuid.NewString(), entryID, startStr, endStr, duration, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert time entry: %w", classify(err))
	}
	return s.GetTimeEntryByEntry(entryID)
}

func (s *Store) GetTimeEntryByEntry(entryID string) (*TimeEntry, error) {
	te, err := scanTimeEntry(s.db.QueryRow(
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE entry_id = ?`, entryID,
	))
	if err != nil {
		return nil, fmt.Errorf("get time entry for %s: %w", entryID, classify(err))
	}
	return te, nil
}

func (s *Store) DeleteTimeEntry(entryID string) error {
	res, err := s.db.Exec(`DELETE FROM time_entries WHERE entry_id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
