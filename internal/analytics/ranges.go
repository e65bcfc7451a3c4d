package analytics

import (
	"fmt"
	"time"
)

// Period names a relative analysis window.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	Period3Months Period = "3months"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

// allTimeFloor is the fixed start of the "all" period. Deliberately a
// constant rather than a lookup of the earliest entry; changing it would
// change reported All Time totals.
const allTimeFloor = "2020-01-01"

const dateLayout = "2006-01-02"

// Range is a closed [Start, End] window of calendar dates.
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

func (r Range) StartDate() string { return r.Start.Format(dateLayout) }
func (r Range) EndDate() string   { return r.End.Format(dateLayout) }

// Days returns the number of calendar days the range covers, inclusive.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// ResolveRange maps a period name to its date window relative to anchor.
func ResolveRange(period Period, anchor time.Time) (Range, error) {
	day := truncateDay(anchor)
	switch period {
	case PeriodWeek:
		return Range{Start: startOfWeek(day), End: day, Label: "This Week"}, nil
	case PeriodMonth:
		return Range{Start: day.AddDate(0, 0, -29), End: day, Label: "Last 30 Days"}, nil
	case Period3Months:
		return Range{Start: day.AddDate(0, 0, -89), End: day, Label: "Last 3 Months"}, nil
	case PeriodYear:
		return Range{Start: day.AddDate(0, 0, -364), End: day, Label: "Last Year"}, nil
	case PeriodAll:
		floor, _ := time.Parse(dateLayout, allTimeFloor)
		return Range{Start: floor, End: day, Label: "All Time"}, nil
	default:
		return Range{}, fmt.Errorf("unknown period %q", period)
	}
}

// PreviousRange returns the window of identical length immediately before r,
// ending the day before r starts.
func PreviousRange(r Range) Range {
	days := r.Days()
	end := r.Start.AddDate(0, 0, -1)
	return Range{
		Start: end.AddDate(0, 0, -(days - 1)),
		End:   end,
		Label: "Previous " + r.Label,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	return day.AddDate(0, 0, -(wd - 1))
}
