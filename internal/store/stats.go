package store

import "fmt"

// trackedMinutesExpr computes the minutes a time_entries row contributes:
// duration rows count as recorded, clock rows as (end - start) when both
// timestamps are present. Open clock sessions contribute zero.
const trackedMinutesExpr = `CASE
	WHEN te.duration IS NOT NULL THEN te.duration
	WHEN te.start_time IS NOT NULL AND te.end_time IS NOT NULL
		THEN CAST((julianday(te.end_time) - julianday(te.start_time)) * 1440 AS INTEGER)
	ELSE 0
END`

// GetAggregatedCategoryData rolls up every category of a focus over
// [start, end]: entry count, distinct active days, summed completion
// quantities and tracked minutes. Sorted by total tasks then total minutes,
// both descending.
func (s *Store) GetAggregatedCategoryData(focusID, start, end string) ([]CategoryAggregate, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.emoji, c.color, c.time_type,
			(SELECT COUNT(*) FROM entries e
				WHERE e.category_id = c.id AND e.date >= ?1 AND e.date <= ?2),
			(SELECT COUNT(DISTINCT e.date) FROM entries e
				WHERE e.category_id = c.id AND e.date >= ?1 AND e.date <= ?2),
			COALESCE((SELECT SUM(tc.quantity)
				FROM task_completions tc
				JOIN entries e ON e.id = tc.entry_id
				WHERE e.category_id = c.id AND e.date >= ?1 AND e.date <= ?2), 0),
			COALESCE((SELECT SUM(`+trackedMinutesExpr+`)
				FROM time_entries te
				JOIN entries e ON e.id = te.entry_id
				WHERE e.category_id = c.id AND e.date >= ?1 AND e.date <= ?2), 0)
		FROM categories c
		WHERE c.focus_id = ?3
		ORDER BY 8 DESC, 9 DESC`,
		start, end, focusID,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer rows.Close()

	var aggs []CategoryAggregate
	for rows.Next() {
		var a CategoryAggregate
		var timeType string
		err := rows.Scan(&a.CategoryID, &a.CategoryName, &a.CategoryEmoji, &a.CategoryColor,
			&timeType, &a.EntryCount, &a.ActiveDays, &a.TotalTasks, &a.TotalMinutes)
		if err != nil {
			return nil, err
		}
		a.TimeType = TimeType(timeType)
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}

// GetTaskCompletionStats returns the summed completion quantity for a focus
// over [start, end].
func (s *Store) GetTaskCompletionStats(focusID, start, end string) (int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(tc.quantity), 0)
		FROM task_completions tc
		JOIN entries e ON e.id = tc.entry_id
		WHERE e.focus_id = ? AND e.date >= ? AND e.date <= ?`,
		focusID, start, end,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("completion stats: %w", err)
	}
	return total, nil
}

// GetTimeTrackingStats summarizes tracked time for a focus over [start, end].
func (s *Store) GetTimeTrackingStats(focusID, start, end string) (*TimeTrackingStats, error) {
	st := &TimeTrackingStats{}
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(m), 0),
		       COUNT(DISTINCT CASE WHEN m > 0 THEN day END),
		       COUNT(*)
		FROM (
			SELECT e.date AS day, `+trackedMinutesExpr+` AS m
			FROM time_entries te
			JOIN entries e ON e.id = te.entry_id
			WHERE e.focus_id = ? AND e.date >= ? AND e.date <= ?
		)`,
		focusID, start, end,
	).Scan(&st.TotalMinutes, &st.DaysWithTime, &st.TrackedSessions)
	if err != nil {
		return nil, fmt.Errorf("time tracking stats: %w", err)
	}
	return st, nil
}

// GetStreakData returns every distinct date with at least one entry for the
// focus, ascending. Streaks are computed over the full history, not a period.
func (s *Store) GetStreakData(focusID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT date FROM entries WHERE focus_id = ? ORDER BY date`, focusID,
	)
	if err != nil {
		return nil, fmt.Errorf("streak data: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// GetTopTasks returns tasks by summed completion quantity, descending.
// Grouping is by task name so completions of a renamed or deleted task stay
// attributed to what the user saw.
func (s *Store) GetTopTasks(focusID, start, end string, limit int) ([]TaskTotal, error) {
	rows, err := s.db.Query(`
		SELECT COALESCE(tc.task_id, ''), tc.task_name, SUM(tc.quantity) AS total
		FROM task_completions tc
		JOIN entries e ON e.id = tc.entry_id
		WHERE e.focus_id = ? AND e.date >= ? AND e.date <= ?
		GROUP BY tc.task_name
		ORDER BY total DESC, tc.task_name
		LIMIT ?`,
		focusID, start, end, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top tasks: %w", err)
	}
	defer rows.Close()

	var totals []TaskTotal
	for rows.Next() {
		var t TaskTotal
		if err := rows.Scan(&t.TaskID, &t.TaskName, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// GetTimeSeriesData returns one point per date that has entries, with summed
// completion quantities across the focus's categories. Dates without entries
// produce no point; the series is sparse.
func (s *Store) GetTimeSeriesData(focusID, start, end string) ([]SeriesPoint, error) {
	rows, err := s.db.Query(`
		SELECT e.date, COALESCE(SUM(tc.quantity), 0)
		FROM entries e
		LEFT JOIN task_completions tc ON tc.entry_id = e.id
		WHERE e.focus_id = ? AND e.date >= ? AND e.date <= ?
		GROUP BY e.date
		ORDER BY e.date`,
		focusID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("time series: %w", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Date, &p.Total); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetDailyTimeTotals returns tracked minutes per date for a focus over
// [start, end], skipping dates with no tracked time.
func (s *Store) GetDailyTimeTotals(focusID, start, end string) ([]SeriesPoint, error) {
	rows, err := s.db.Query(`
		SELECT e.date, SUM(`+trackedMinutesExpr+`) AS minutes
		FROM time_entries te
		JOIN entries e ON e.id = te.entry_id
		WHERE e.focus_id = ? AND e.date >= ? AND e.date <= ?
		GROUP BY e.date
		HAVING minutes > 0
		ORDER BY e.date`,
		focusID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("daily time totals: %w", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Date, &p.Total); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
