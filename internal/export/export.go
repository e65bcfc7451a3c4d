package export

import (
	"fmt"
	"time"

	"github.com/sadopc/focusly/internal/store"
)

// CollectDays loads entry details for every date in [start, end], skipping
// dates with no activity. Pass a nil focusID to export across all focuses.
func CollectDays(s *store.Store, start, end string, focusID *string) ([]Day, error) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	var days []Day
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		entries, err := s.GetEntriesByDate(date, focusID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		days = append(days, Day{Date: date, Entries: entries})
	}
	return days, nil
}

// trackedMinutes mirrors the store's accounting: duration records count as
// recorded, clock records as end minus start when both are present.
func trackedMinutes(te *store.TimeEntry) int {
	if te.Duration != nil {
		return *te.Duration
	}
	if te.StartTime != nil && te.EndTime != nil {
		return int(te.EndTime.Sub(*te.StartTime).Minutes())
	}
	return 0
}
