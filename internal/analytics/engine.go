package analytics

import (
	"fmt"
	"time"

	"github.com/sadopc/focusly/internal/store"
)

// Engine computes period-scoped analytics for a focus, reading through an
// injected store.
type Engine struct {
	store *store.Store
	// now is swappable so tests can pin the anchor date.
	now func() time.Time
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// CategoryStats is a category rollup enriched with its share of the focus's
// task total and its growth against the previous period.
type CategoryStats struct {
	store.CategoryAggregate
	Share  float64 // percent of all category task totals
	Growth float64 // percent vs previous period
}

// Overview is the period summary consumed by dashboards and the insight
// generator.
type Overview struct {
	Range        Range
	TotalTasks   int
	TotalMinutes int
	ActiveDays   int
	Streaks      Streaks
	Score        Score
	Categories   []CategoryStats
	TopTasks     []store.TaskTotal
	PeakDay      string // date with most tracked minutes, "" when none
	PeakMinutes  int
}

// CategoryBreakdown aggregates the focus's categories over the period and
// attaches share and growth percentages.
func (e *Engine) CategoryBreakdown(focusID string, period Period, anchor time.Time) ([]CategoryStats, error) {
	r, err := ResolveRange(period, anchor)
	if err != nil {
		return nil, err
	}
	prev := PreviousRange(r)

	current, err := e.store.GetAggregatedCategoryData(focusID, r.StartDate(), r.EndDate())
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	previous, err := e.store.GetAggregatedCategoryData(focusID, prev.StartDate(), prev.EndDate())
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	prevTotals := make(map[string]int, len(previous))
	for _, p := range previous {
		prevTotals[p.CategoryID] = p.TotalTasks
	}

	sum := 0
	for _, c := range current {
		sum += c.TotalTasks
	}

	stats := make([]CategoryStats, 0, len(current))
	for _, c := range current {
		cs := CategoryStats{CategoryAggregate: c}
		if sum > 0 {
			cs.Share = float64(c.TotalTasks) / float64(sum) * 100
		}
		cs.Growth = Growth(c.TotalTasks, prevTotals[c.CategoryID])
		stats = append(stats, cs)
	}
	return stats, nil
}

// TimeSeries returns the sparse per-date completion totals for the period.
func (e *Engine) TimeSeries(focusID string, period Period, anchor time.Time) ([]store.SeriesPoint, error) {
	r, err := ResolveRange(period, anchor)
	if err != nil {
		return nil, err
	}
	return e.store.GetTimeSeriesData(focusID, r.StartDate(), r.EndDate())
}

// SmoothTimeSeries applies a 3-point moving average over the sparse series.
// It operates on the points as given; gaps between dates are not filled in.
func SmoothTimeSeries(points []store.SeriesPoint) []store.SeriesPoint {
	if len(points) < 3 {
		return points
	}
	out := make([]store.SeriesPoint, len(points))
	copy(out, points)
	for i := 1; i < len(points)-1; i++ {
		out[i].Total = (points[i-1].Total + points[i].Total + points[i+1].Total) / 3
	}
	return out
}

// Summarize computes the full period overview for a focus: totals, streaks,
// productivity score with trend, category breakdown, top tasks and peak day.
func (e *Engine) Summarize(focusID string, period Period) (*Overview, error) {
	return e.SummarizeAt(focusID, period, e.now())
}

// SummarizeAt is Summarize with an explicit anchor date.
func (e *Engine) SummarizeAt(focusID string, period Period, anchor time.Time) (*Overview, error) {
	r, err := ResolveRange(period, anchor)
	if err != nil {
		return nil, err
	}
	prev := PreviousRange(r)

	categories, err := e.CategoryBreakdown(focusID, period, anchor)
	if err != nil {
		return nil, err
	}

	totalTasks, err := e.store.GetTaskCompletionStats(focusID, r.StartDate(), r.EndDate())
	if err != nil {
		return nil, err
	}
	prevTasks, err := e.store.GetTaskCompletionStats(focusID, prev.StartDate(), prev.EndDate())
	if err != nil {
		return nil, err
	}

	timeStats, err := e.store.GetTimeTrackingStats(focusID, r.StartDate(), r.EndDate())
	if err != nil {
		return nil, err
	}

	streakDates, err := e.store.GetStreakData(focusID)
	if err != nil {
		return nil, err
	}
	streaks := ComputeStreaks(streakDates, anchor)

	topTasks, err := e.store.GetTopTasks(focusID, r.StartDate(), r.EndDate(), 5)
	if err != nil {
		return nil, err
	}

	dailyTime, err := e.store.GetDailyTimeTotals(focusID, r.StartDate(), r.EndDate())
	if err != nil {
		return nil, err
	}
	peakDay, peakMinutes := "", 0
	for _, p := range dailyTime {
		if p.Total > peakMinutes {
			peakDay, peakMinutes = p.Date, p.Total
		}
	}

	activeDays := distinctActiveDays(streakDates, r)
	activeCategories := 0
	for _, c := range categories {
		if c.EntryCount > 0 {
			activeCategories++
		}
	}

	score := computeScore(scoreInput{
		currentStreak:    streaks.Current,
		longestStreak:    streaks.Longest,
		totalTasks:       totalTasks,
		activeDays:       activeDays,
		daysWithTime:     timeStats.DaysWithTime,
		activeCategories: activeCategories,
		totalCategories:  len(categories),
	})
	score.Trend = trendOf(Growth(totalTasks, prevTasks))

	return &Overview{
		Range:        r,
		TotalTasks:   totalTasks,
		TotalMinutes: timeStats.TotalMinutes,
		ActiveDays:   activeDays,
		Streaks:      streaks,
		Score:        score,
		Categories:   categories,
		TopTasks:     topTasks,
		PeakDay:      peakDay,
		PeakMinutes:  peakMinutes,
	}, nil
}

// distinctActiveDays counts the focus's active dates that fall inside r.
func distinctActiveDays(dates []string, r Range) int {
	start, end := r.StartDate(), r.EndDate()
	n := 0
	for _, d := range dates {
		if d >= start && d <= end {
			n++
		}
	}
	return n
}
