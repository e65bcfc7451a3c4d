package store

import "time"

// TimeType describes how a category tracks time.
type TimeType string

const (
	TimeTypeNone     TimeType = "none"
	TimeTypeClock    TimeType = "clock"
	TimeTypeDuration TimeType = "duration"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Birthday  *string // YYYY-MM-DD
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Focus struct {
	ID        string
	Name      string
	Emoji     string
	Color     string
	IsActive  bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        string
	FocusID   string
	Name      string
	Emoji     string
	Color     string
	TimeType  TimeType
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID          string
	CategoryID  string
	Name        string
	IsRecurring bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Entry records that a category was touched on a calendar date. At most one
// exists per (date, category) pair.
type Entry struct {
	ID         string
	Date       string // YYYY-MM-DD
	CategoryID string
	FocusID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TaskCompletion logs a quantity against a task within an entry. TaskID is
// nil for ad hoc "other" tasks; TaskName is always populated so history
// survives task renames and deletes.
type TaskCompletion struct {
	ID          string
	EntryID     string
	TaskID      *string
	TaskName    string
	Quantity    int
	Duration    *int // minutes, duration-type categories only
	IsOtherTask bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeEntry is the time record for an entry: clock in/out (EndTime nil while
// open) or a plain duration in minutes. At most one exists per entry.
type TimeEntry struct {
	ID        string
	EntryID   string
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *int // minutes
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// EntryDetail is an entry joined with its category's display metadata and its
// child rows, as returned by GetEntriesByDate.
type EntryDetail struct {
	Entry
	CategoryName  string
	CategoryEmoji string
	CategoryColor string
	TimeType      TimeType
	Completions   []TaskCompletion
	TimeEntry     *TimeEntry
}

// CategoryAggregate is the per-category rollup over a date range.
type CategoryAggregate struct {
	CategoryID    string
	CategoryName  string
	CategoryEmoji string
	CategoryColor string
	TimeType      TimeType
	EntryCount    int
	ActiveDays    int
	TotalTasks    int
	TotalMinutes  int
}

// TaskTotal is a task's summed completion quantity over a date range.
type TaskTotal struct {
	TaskID   string
	TaskName string
	Total    int
}

// SeriesPoint is one day of summed completion quantities. Dates with no
// activity produce no point.
type SeriesPoint struct {
	Date  string
	Total int
}

// TimeTrackingStats summarizes tracked time over a date range.
type TimeTrackingStats struct {
	TotalMinutes    int
	DaysWithTime    int
	TrackedSessions int
}
