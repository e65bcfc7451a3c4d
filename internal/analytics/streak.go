package analytics

import "time"

// Streaks describes consecutive-day activity for a focus.
type Streaks struct {
	Current int
	Longest int
	// Active reports whether the streak is displayable as alive: today or
	// yesterday has activity and the current streak is non-zero.
	Active bool
}

// ComputeStreaks walks the full set of distinct active dates (ascending
// YYYY-MM-DD strings) relative to today.
//
// The current streak starts from today if today is active, else from
// yesterday if yesterday is active, else it is zero; it then counts
// consecutive active days walking backward until the first gap. The longest
// streak is a single pass over the sorted list, resetting on any gap.
func ComputeStreaks(dates []string, today time.Time) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}

	active := make(map[string]bool, len(dates))
	for _, d := range dates {
		active[d] = true
	}

	day := truncateDay(today)
	switch {
	case active[day.Format(dateLayout)]:
		// Streak anchored at today.
	case active[day.AddDate(0, 0, -1).Format(dateLayout)]:
		day = day.AddDate(0, 0, -1)
	default:
		return Streaks{Longest: longestRun(dates)}
	}

	current := 0
	for active[day.Format(dateLayout)] {
		current++
		day = day.AddDate(0, 0, -1)
	}

	return Streaks{
		Current: current,
		Longest: longestRun(dates),
		Active:  current > 0,
	}
}

// longestRun scans the sorted date list once, counting the longest stretch of
// dates each exactly one calendar day after the previous.
func longestRun(dates []string) int {
	longest, run := 0, 0
	var prev time.Time
	for i, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		if i == 0 || t.Sub(prev) != 24*time.Hour {
			run = 1
		} else {
			run++
		}
		if run > longest {
			longest = run
		}
		prev = t
	}
	return longest
}
